//go:build !linux

package capture

import "errors"

// ErrUnsupportedPlatform is returned by Open on any platform other than
// Linux: the V4L2 capture protocol this package implements is Linux-only,
// matching the design's scope (an embedded Linux single-board computer).
var ErrUnsupportedPlatform = errors.New("capture: V4L2 capture is only supported on linux")

// Open always fails on non-Linux platforms.
func Open(devicePath string) (Source, error) {
	return nil, ErrUnsupportedPlatform
}
