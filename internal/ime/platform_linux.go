//go:build linux

package ime

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// LinuxPlatform registers the engine as an IBus component.
type LinuxPlatform struct {
	config PlatformConfig

	// run executes an ibus command and returns its standard output.
	run func(name string, args ...string) ([]byte, error)
}

// NewLinuxPlatform creates the IBus installer for config.
func NewLinuxPlatform(config PlatformConfig) *LinuxPlatform {
	return &LinuxPlatform{
		config: config,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

// NewPlatform returns the installer for the running platform.
func NewPlatform(config PlatformConfig) Platform {
	return NewLinuxPlatform(config)
}

func (p *LinuxPlatform) Name() string {
	return "linux"
}

func (p *LinuxPlatform) Available() bool {
	if _, err := os.Stat("/usr/share/ibus/component"); err == nil {
		return true
	}
	_, err := exec.LookPath("ibus-daemon")
	return err == nil
}

func (p *LinuxPlatform) Install() error {
	if p.config.ComponentDir == "" {
		return errors.New("component directory not set")
	}
	if err := os.MkdirAll(p.config.ComponentDir, 0755); err != nil {
		return err
	}

	data, err := ComponentXML(p.config)
	if err != nil {
		return err
	}
	path := p.config.ComponentFile()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	p.restartIBus()
	return nil
}

func (p *LinuxPlatform) restartIBus() {
	// ibus-daemon rescans components on restart; not running is fine
	p.run("ibus", "restart")
}

func (p *LinuxPlatform) Uninstall() error {
	err := os.Remove(p.config.ComponentFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	p.restartIBus()
	return nil
}

func (p *LinuxPlatform) IsInstalled() bool {
	_, err := os.Stat(p.config.ComponentFile())
	return err == nil
}

func (p *LinuxPlatform) IsActive() bool {
	out, err := p.run("ibus", "engine")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == p.config.EngineName
}

func (p *LinuxPlatform) Activate() error {
	if _, err := p.run("ibus", "engine", p.config.EngineName); err != nil {
		return fmt.Errorf("select %s with ibus: %w", p.config.EngineName, err)
	}
	return nil
}

var _ Platform = (*LinuxPlatform)(nil)
