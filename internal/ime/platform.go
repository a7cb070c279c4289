package ime

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Names the engine registers under unless configured otherwise.
const (
	DefaultBusName    = "org.freedesktop.IBus.OpenBangla"
	DefaultEngineName = "OpenBangla"
)

// Platform registers the input method with the desktop's input framework.
type Platform interface {
	// Name returns the platform name (e.g. "linux").
	Name() string

	// Available returns true if the input framework is present.
	Available() bool

	// Install registers the input method for the current user.
	Install() error

	// Uninstall removes the registration.
	Uninstall() error

	// IsInstalled returns true if the registration exists.
	IsInstalled() bool

	// IsActive returns true if the input method is currently selected.
	IsActive() bool

	// Activate makes this input method the active one.
	Activate() error
}

// PlatformConfig describes how the input method is registered.
type PlatformConfig struct {
	// ComponentDir is where the IBus component file is written.
	ComponentDir string

	// ExecPath is the engine binary ibus-daemon launches.
	ExecPath string

	// ConfigPath is passed to the engine binary when set.
	ConfigPath string

	BusName    string
	EngineName string

	// DisplayName is shown in the desktop's input source list.
	DisplayName string

	// IconPath is the engine icon. Empty leaves the framework default.
	IconPath string

	// Layout is the XKB layout the engine runs on top of.
	Layout string
}

// DefaultPlatformConfig returns the registration used by the installer.
func DefaultPlatformConfig(componentDir string) PlatformConfig {
	exe, err := os.Executable()
	if err != nil {
		exe = "openbangla-ibus"
	}
	return PlatformConfig{
		ComponentDir: componentDir,
		ExecPath:     exe,
		BusName:      DefaultBusName,
		EngineName:   DefaultEngineName,
		DisplayName:  "OpenBangla Keyboard",
		Layout:       "us",
	}
}

// ComponentFile returns the path of the component file.
func (c PlatformConfig) ComponentFile() string {
	return filepath.Join(c.ComponentDir, "openbangla.xml")
}

type ibusComponent struct {
	XMLName     xml.Name         `xml:"component"`
	Name        string           `xml:"name"`
	Description string           `xml:"description"`
	Exec        string           `xml:"exec"`
	Version     string           `xml:"version"`
	Author      string           `xml:"author"`
	License     string           `xml:"license"`
	Homepage    string           `xml:"homepage"`
	TextDomain  string           `xml:"textdomain"`
	Engines     []ibusEngineDesc `xml:"engines>engine"`
}

type ibusEngineDesc struct {
	Name        string `xml:"name"`
	Language    string `xml:"language"`
	License     string `xml:"license"`
	Author      string `xml:"author"`
	Icon        string `xml:"icon,omitempty"`
	Layout      string `xml:"layout"`
	LongName    string `xml:"longname"`
	Description string `xml:"description"`
	Rank        int    `xml:"rank"`
	Symbol      string `xml:"symbol"`
}

// ComponentXML renders the IBus component description for c.
func ComponentXML(c PlatformConfig) ([]byte, error) {
	exec := fmt.Sprintf("%s --ibus", c.ExecPath)
	if c.ConfigPath != "" {
		exec = fmt.Sprintf("%s --config %s", exec, c.ConfigPath)
	}
	comp := ibusComponent{
		Name:        c.BusName,
		Description: "OpenBangla Keyboard IBus engine",
		Exec:        exec,
		Version:     "2.0",
		Author:      "OpenBangla",
		License:     "GPL",
		Homepage:    "https://openbangla.github.io",
		TextDomain:  "openbangla-keyboard",
		Engines: []ibusEngineDesc{{
			Name:        c.EngineName,
			Language:    "bn",
			License:     "GPL",
			Author:      "OpenBangla",
			Icon:        c.IconPath,
			Layout:      c.Layout,
			LongName:    c.DisplayName,
			Description: "Bangla input method",
			Rank:        0,
			Symbol:      "অ",
		}},
	}
	out, err := xml.MarshalIndent(comp, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode component: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
