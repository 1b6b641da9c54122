package pipeline

import (
	"fmt"

	"github.com/tablerail/railalign/internal/capture"
	"github.com/tablerail/railalign/internal/decode"
)

// decodeFrame dispatches on the negotiated capture format. The camera
// source tries MJPEG first and falls back to whatever the driver actually
// offers (see internal/capture), so the driver has to be ready to decode
// any of them.
func decodeFrame(format capture.Format, raw capture.RawFrame) (decode.Frame, error) {
	switch format.FourCC {
	case capture.FourCCMJPEG:
		return decode.MJPEG(raw.Bytes)
	case capture.FourCCYUYV:
		return decode.FromYUYV(raw.Bytes, format.Width, format.Height, format.BytesPerLine)
	case capture.FourCCNV12:
		return decode.FromNV12(raw.Bytes, format.Width, format.Height, format.BytesPerLine)
	case capture.FourCCRGB24:
		return decode.FromRGB24(raw.Bytes, format.Width, format.Height, format.BytesPerLine)
	default:
		return decode.Frame{}, fmt.Errorf("pipeline: unrecognized capture format %#x", format.FourCC)
	}
}
