//go:build !linux

package ime

import "errors"

var errUnsupported = errors.New("IBus is only available on Linux")

// OtherPlatform is a stub for platforms without IBus.
type OtherPlatform struct{}

// NewPlatform returns the installer for the running platform.
func NewPlatform(PlatformConfig) Platform {
	return OtherPlatform{}
}

func (OtherPlatform) Name() string      { return "unsupported" }
func (OtherPlatform) Available() bool   { return false }
func (OtherPlatform) Install() error    { return errUnsupported }
func (OtherPlatform) Uninstall() error  { return errUnsupported }
func (OtherPlatform) IsInstalled() bool { return false }
func (OtherPlatform) IsActive() bool    { return false }
func (OtherPlatform) Activate() error   { return errUnsupported }

var _ Platform = OtherPlatform{}
