// Package capture wraps the camera capture device: format negotiation, a
// bounded ring of mapped buffers, and a blocking "next frame" operation.
package capture

import "time"

// FourCC pixel format codes, as reported by V4L2's VIDIOC_G/S_FMT.
const (
	FourCCMJPEG = 0x47504A4D // 'MJPG'
	FourCCYUYV  = 0x56595559 // 'YUYV'
	FourCCNV12  = 0x3231564E // 'NV12'
	FourCCRGB24 = 0x33424752 // 'RGB3'
)

// Format describes the negotiated capture format. The driver may return
// different effective values than requested; Format reports the
// authoritative, actually-negotiated values.
type Format struct {
	Width, Height int
	FourCC        uint32
	BytesPerLine  int
	FrameSize     int
}

// Metadata accompanies a captured frame.
type Metadata struct {
	Sequence  uint32
	Timestamp time.Time
}

// RawFrame is a borrowed view of a mapped capture buffer. It is valid only
// until the next call to Source.Next; callers must never retain it.
type RawFrame struct {
	Bytes []byte
}

// Source is the capture device contract. A concrete implementation is
// provided per platform; Next blocks until a frame is available.
type Source interface {
	Format() Format
	Next() (RawFrame, Metadata, error)
	Close() error
}
