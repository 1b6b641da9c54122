package pipeline

import (
	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/decode"
)

// blit copies a decoded camera frame onto the canvas at the origin. The
// camera's negotiated resolution is smaller than the canvas's fixed
// 800×480, so anything outside the frame's bounds is left whatever the
// canvas already held (callers Clear() first); anything outside the
// canvas's bounds is silently dropped by SetPixel.
//
// Decoded bytes 0,1,2 land in the canvas's B,G,R slots channel-for-channel,
// with no R/B swap: SetPixel stores RGB.B into the canvas's B slot (byte 0)
// and RGB.R into its R slot (byte 2), so passing decoded byte 0 as B and
// decoded byte 2 as R is what keeps the mapping a straight copy.
func blit(cv *canvas.Canvas, frame decode.Frame) {
	for y := 0; y < frame.Height; y++ {
		rowOffset := y * frame.Width * 3
		for x := 0; x < frame.Width; x++ {
			i := rowOffset + x*3
			cv.SetPixel(x, y, canvas.RGB{R: frame.RGB[i+2], G: frame.RGB[i+1], B: frame.RGB[i]})
		}
	}
}
