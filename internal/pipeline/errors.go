package pipeline

import "errors"

// Sentinel errors the driver's per-frame steps can fail with. Run wraps the
// offending step's underlying error with one of these so callers (and the
// restart loop) can classify failures without string matching.
var (
	ErrCapture                      = errors.New("pipeline: capture failed")
	ErrDecode                       = errors.New("pipeline: decode failed")
	ErrFramebufferMap               = errors.New("pipeline: framebuffer map failed")
	ErrUnsupportedFramebufferFormat = errors.New("pipeline: unsupported framebuffer format")
	ErrCommandEmit                  = errors.New("pipeline: motor command emit failed")
)
