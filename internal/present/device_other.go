//go:build !linux

package present

import "errors"

// ErrUnsupportedPlatform is returned by OpenDevice on platforms with no
// Linux framebuffer to map.
var ErrUnsupportedPlatform = errors.New("present: framebuffer access requires linux")

// Device is an unusable placeholder outside Linux; present.Present and the
// pipeline driver never instantiate one off this path.
type Device struct{}

// OpenDevice always fails outside Linux.
func OpenDevice(path string) (*Device, error) {
	return nil, ErrUnsupportedPlatform
}

func (d *Device) Info() Info     { return Info{} }
func (d *Device) Mem() []byte    { return nil }
func (d *Device) Unblank() error { return ErrUnsupportedPlatform }
func (d *Device) Close() error   { return nil }
