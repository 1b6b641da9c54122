// Package raildetect implements the rail-alignment scan: two horizontal
// luminance scans, adaptive thresholding, and paired-peak search, with
// temporal smoothing of the stationary (layout) rail.
package raildetect

import (
	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/decode"
	"github.com/tablerail/railalign/internal/railopt"
)

// Config holds the detector's compile-time-tunable geometry. Changing
// RailPairWidthPx means recalibrating the physical rail spacing.
type Config struct {
	TableY          int
	LayoutY         int
	RailPairWidthPx int
	EdgeSkip        int
	Debug           bool
}

// DefaultConfig matches the design's defaults.
func DefaultConfig() Config {
	return Config{
		TableY:          346,
		LayoutY:         368,
		RailPairWidthPx: 106,
		EdgeSkip:        80,
	}
}

// Observation is a single frame's rail detection result.
type Observation struct {
	TableX  railopt.U32
	LayoutX railopt.U32
}

const historyLen = 8

// History is a ring of the 8 most recent positive layout_x observations;
// -1 marks an empty slot. It survives across frames for the lifetime of the
// pipeline session.
type History struct {
	slots [historyLen]int32
	next  int
}

// NewHistory returns a History with every slot empty.
func NewHistory() *History {
	h := &History{}
	for i := range h.slots {
		h.slots[i] = -1
	}
	return h
}

// push writes v into the next ring slot.
func (h *History) push(v uint32) {
	h.slots[h.next%historyLen] = int32(v)
	h.next++
}

// Mean returns the arithmetic mean of the slots holding a value > 0, and
// whether any such slot exists. Slots holding -1 (empty) are ignored.
func (h *History) Mean() (uint32, bool) {
	var sum, count int64
	for _, v := range h.slots {
		if v > 0 {
			sum += int64(v)
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return uint32(sum / count), true
}

// Detector scans DecodedFrame rows for rail pairs and smooths the layout
// rail across frames via History.
type Detector struct {
	cfg     Config
	history *History
}

// New returns a Detector using cfg.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg, history: NewHistory()}
}

// Detect scans frame's two rows and returns a RailObservation. It never
// fails; either x-position may be absent. If dbg is non-nil and cfg.Debug is
// set, candidate-mask markers are drawn onto it.
func (d *Detector) Detect(frame decode.Frame, dbg *canvas.Canvas) Observation {
	tableX := d.scanRow(frame, d.cfg.TableY, dbg, canvas.RGB{R: 255})
	rawLayoutX := d.scanRow(frame, d.cfg.LayoutY, dbg, canvas.RGB{B: 255})

	layoutX := rawLayoutX
	if rawLayoutX.Ok {
		d.history.push(rawLayoutX.Value)
	} else if mean, ok := d.history.Mean(); ok {
		layoutX = railopt.Some(mean)
	}

	return Observation{TableX: tableX, LayoutX: layoutX}
}

// brightness implements the design's luminance approximation:
// clamp((3R + 4G + R + B) / 6, 0, 255).
func brightness(r, g, b byte) byte {
	v := (3*int(r) + 4*int(g) + int(r) + int(b)) / 6
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func (d *Detector) scanRow(frame decode.Frame, rowY int, dbg *canvas.Canvas, markerColor canvas.RGB) railopt.U32 {
	if rowY < 0 || rowY >= frame.Height {
		return railopt.None
	}

	width := frame.Width
	brightnessRow := make([]byte, width)
	var maxB byte
	rowOffset := rowY * width * 3
	for x := 0; x < width; x++ {
		i := rowOffset + x*3
		if i+2 >= len(frame.RGB) {
			break
		}
		b := brightness(frame.RGB[i], frame.RGB[i+1], frame.RGB[i+2])
		brightnessRow[x] = b
		if b > maxB {
			maxB = b
		}
	}

	threshold := float64(maxB) - 0.14*float64(maxB)
	candidate := make([]bool, width)
	allCandidates := true
	for x := 0; x < width; x++ {
		candidate[x] = float64(brightnessRow[x]) >= threshold
		if !candidate[x] {
			allCandidates = false
		}
	}

	if d.cfg.Debug && dbg != nil {
		for x := 0; x < width; x++ {
			if candidate[x] {
				dbg.SetPixel(x, rowY, markerColor)
			}
		}
	}

	// A row with no pixel below the threshold (e.g. uniformly lit) has no
	// peak to pair, so no rail is reported.
	if allCandidates {
		return railopt.None
	}

	pairWidth := d.cfg.RailPairWidthPx
	edgeSkip := d.cfg.EdgeSkip
	end := width - pairWidth - edgeSkip
	for x := edgeSkip; x < end; x++ {
		if !candidate[x] || x+pairWidth >= width || !candidate[x+pairWidth] {
			continue
		}
		xEnd := x
		for xEnd < width && candidate[xEnd] {
			xEnd++
		}
		// The reported center must never fall outside the edge-skip band on
		// either side, so a candidate run is never allowed to push it past
		// the same upper bound the scan itself stops at.
		if xEnd > end {
			xEnd = end
		}
		center := (x + xEnd) / 2
		return railopt.Some(uint32(center))
	}

	return railopt.None
}
