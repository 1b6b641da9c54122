// Package snapshot saves the composited overlay canvas to a PNG file for
// offline debugging, the way the camera driver's original single-frame
// capture utility saved a raw camera frame.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/tablerail/railalign/internal/canvas"
)

// Save encodes cv as an NRGBA PNG at path. Unlike the camera's raw frame
// dump this reads already-RGB canvas pixels directly, with no YCbCr
// conversion: the canvas never stores chroma-subsampled data.
func Save(cv *canvas.Canvas, path string) error {
	img := image.NewNRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			rgb := cv.At(x, y)
			di := img.PixOffset(x, y)
			img.Pix[di+0] = rgb.R
			img.Pix[di+1] = rgb.G
			img.Pix[di+2] = rgb.B
			img.Pix[di+3] = 0xff
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return nil
}
