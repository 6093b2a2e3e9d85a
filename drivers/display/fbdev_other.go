//go:build !linux

package display

import "image/color"

// FBDev is a Linux framebuffer device.  It is not available on this
// platform.
type FBDev struct{}

// OpenFBDev always fails with ErrUnsupported.
func OpenFBDev(path string) (*FBDev, error) {
	return nil, ErrUnsupported
}

func (d *FBDev) Mode() Mode          { return Mode{} }
func (d *FBDev) Framebuffer() []byte { return nil }
func (d *FBDev) Fill(c color.Color)  {}
func (d *FBDev) ID() string          { return "" }
func (d *FBDev) Close() error        { return nil }
