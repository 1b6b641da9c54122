package present

import (
	"testing"

	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/pixfmt"
)

func TestPresentPadsOutOfCanvasRegionWithZero(t *testing.T) {
	c := canvas.New()
	c.SetPixel(0, 0, canvas.RGB{R: 255, G: 255, B: 255})

	info := Info{Width: canvas.Width + 10, Height: canvas.Height + 10, BytesPerPixel: 4, Layout: pixfmt.BGR32}
	fbMem := make([]byte, info.Width*info.Height*info.BytesPerPixel)
	for i := range fbMem {
		fbMem[i] = 0xAA
	}

	if err := Present(c, info, fbMem); err != nil {
		t.Fatalf("present: %v", err)
	}

	off := (0*info.Width + canvas.Width) * info.BytesPerPixel
	for i := 0; i < info.BytesPerPixel; i++ {
		if fbMem[off+i] != 0 {
			t.Fatalf("expected zero padding outside canvas region, got %v", fbMem[off:off+info.BytesPerPixel])
		}
	}
}

func TestPresentUnsupportedFormat(t *testing.T) {
	c := canvas.New()
	info := Info{Width: 10, Height: 10, BytesPerPixel: 5}
	fbMem := make([]byte, 10*10*5)
	if err := Present(c, info, fbMem); err == nil {
		t.Fatal("expected error for unsupported bytes-per-pixel")
	}
}

func TestPresentCopiesCanvasPixel(t *testing.T) {
	c := canvas.New()
	c.SetPixel(5, 5, canvas.RGB{R: 10, G: 20, B: 30})
	info := Info{Width: canvas.Width, Height: canvas.Height, BytesPerPixel: 4, Layout: pixfmt.BGR32}
	fbMem := make([]byte, info.Width*info.Height*info.BytesPerPixel)

	if err := Present(c, info, fbMem); err != nil {
		t.Fatalf("present: %v", err)
	}

	sx, sy := sourceCoord(5, 5, info.Width, info.Height)
	off := (5*info.Width + 5) * info.BytesPerPixel
	want, err := pixfmt.Pack(info.Layout, info.BytesPerPixel, c.At(sx, sy).R, c.At(sx, sy).G, c.At(sx, sy).B)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	for i, b := range want {
		if fbMem[off+i] != b {
			t.Fatalf("byte %d: got %d want %d", i, fbMem[off+i], b)
		}
	}
}
