// Package present copies a canvas.Canvas onto a native framebuffer, applying
// per-pixel format adaptation via internal/pixfmt.
package present

import (
	"fmt"

	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/pixfmt"
)

// Info describes a framebuffer device's geometry and channel layout, read
// once at open and immutable thereafter.
type Info struct {
	Width, Height int
	BytesPerPixel int
	Layout        pixfmt.Layout
}

// Present copies c onto fbMem, which must be at least
// info.Width*info.Height*info.BytesPerPixel bytes. Pixels outside the
// canvas region (or, on rotated targets, outside the rotated canvas region)
// are written as zero bytes. Present never reads or writes outside fbMem.
func Present(c *canvas.Canvas, info Info, fbMem []byte) error {
	bpp := info.BytesPerPixel
	if bpp != 2 && bpp != 3 && bpp != 4 {
		return &pixfmt.ErrUnsupportedFormat{BytesPerPixel: bpp}
	}

	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			off := (y*info.Width + x) * bpp
			if off+bpp > len(fbMem) {
				continue
			}

			sx, sy := sourceCoord(x, y, info.Width, info.Height)
			if sx >= 0 && sx < canvas.Width && sy >= 0 && sy < canvas.Height {
				rgb := c.At(sx, sy)
				data, err := pixfmt.Pack(info.Layout, bpp, rgb.R, rgb.G, rgb.B)
				if err != nil {
					return fmt.Errorf("present: %w", err)
				}
				copy(fbMem[off:off+bpp], data)
				continue
			}

			for i := 0; i < bpp; i++ {
				fbMem[off+i] = 0
			}
		}
	}
	return nil
}
