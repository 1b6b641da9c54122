package pipeline

import (
	"bytes"
	"testing"

	"github.com/tablerail/railalign/internal/capture"
)

func TestDecodeFrameRejectsUnknownFourCC(t *testing.T) {
	_, err := decodeFrame(capture.Format{FourCC: 0xdeadbeef, Width: 2, Height: 2}, capture.RawFrame{Bytes: make([]byte, 16)})
	if err == nil {
		t.Fatal("expected error for unrecognized FourCC")
	}
}

func TestDecodeFrameRGB24RoundTrips(t *testing.T) {
	format := capture.Format{FourCC: capture.FourCCRGB24, Width: 2, Height: 1, BytesPerLine: 6}
	raw := capture.RawFrame{Bytes: []byte{1, 2, 3, 4, 5, 6}}
	frame, err := decodeFrame(format, raw)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if frame.Width != 2 || frame.Height != 1 {
		t.Fatalf("got %dx%d, want 2x1", frame.Width, frame.Height)
	}
	if !bytes.Equal(frame.RGB, raw.Bytes) {
		t.Fatalf("got %v, want %v", frame.RGB, raw.Bytes)
	}
}
