package raildetect

import (
	"testing"

	"github.com/tablerail/railalign/internal/decode"
)

func solidGrayFrame(width, height int, gray byte) decode.Frame {
	rgb := make([]byte, width*height*3)
	for i := range rgb {
		rgb[i] = gray
	}
	return decode.Frame{Width: width, Height: height, RGB: rgb}
}

func paintRailPixel(frame decode.Frame, x, y int) {
	i := (y*frame.Width + x) * 3
	frame.RGB[i], frame.RGB[i+1], frame.RGB[i+2] = 255, 255, 255
}

func TestScenarioAAlignedRails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TableY, cfg.LayoutY = 346, 368
	frame := solidGrayFrame(640, 480, 40)
	paintRailPixel(frame, 200, 346)
	paintRailPixel(frame, 200+cfg.RailPairWidthPx, 346)
	paintRailPixel(frame, 200, 368)
	paintRailPixel(frame, 306, 368)

	d := New(cfg)
	obs := d.Detect(frame, nil)
	if !obs.TableX.Ok || obs.TableX.Value != 200 {
		t.Fatalf("table_x: got %+v, want 200", obs.TableX)
	}
	if !obs.LayoutX.Ok || obs.LayoutX.Value != 200 {
		t.Fatalf("layout_x: got %+v, want 200", obs.LayoutX)
	}
}

func TestScenarioBTableLeftOfLayout(t *testing.T) {
	cfg := DefaultConfig()
	frame := solidGrayFrame(640, 480, 40)
	paintRailPixel(frame, 195, cfg.TableY)
	paintRailPixel(frame, 195+cfg.RailPairWidthPx, cfg.TableY)
	paintRailPixel(frame, 200, cfg.LayoutY)
	paintRailPixel(frame, 200+cfg.RailPairWidthPx, cfg.LayoutY)

	d := New(cfg)
	obs := d.Detect(frame, nil)
	if !obs.TableX.Ok || obs.TableX.Value != 195 {
		t.Fatalf("table_x: got %+v, want 195", obs.TableX)
	}
	if !obs.LayoutX.Ok || obs.LayoutX.Value != 200 {
		t.Fatalf("layout_x: got %+v, want 200", obs.LayoutX)
	}
}

func TestScenarioCMissingLayoutRailEmptyHistory(t *testing.T) {
	cfg := DefaultConfig()
	frame := solidGrayFrame(640, 480, 128) // uniform gray layout row: no peak

	d := New(cfg)
	obs := d.Detect(frame, nil)
	if obs.LayoutX.Ok {
		t.Fatalf("expected no layout_x on uniform row, got %+v", obs.LayoutX)
	}
}

func TestScenarioCMissingLayoutRailWithHistory(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)
	d.history.slots = [historyLen]int32{210, 212, 208, -1, -1, -1, -1, -1}

	frame := solidGrayFrame(640, 480, 128)
	obs := d.Detect(frame, nil)
	if !obs.LayoutX.Ok {
		t.Fatal("expected synthesized layout_x from history mean")
	}
	want := uint32((210 + 212 + 208) / 3)
	if obs.LayoutX.Value != want {
		t.Fatalf("got %d, want %d", obs.LayoutX.Value, want)
	}
}

func TestHistoryMeanIgnoresEmptySlots(t *testing.T) {
	h := NewHistory()
	mean, ok := h.Mean()
	if ok {
		t.Fatalf("expected no mean for all-empty history, got %d", mean)
	}
	h.push(100)
	h.push(200)
	mean, ok = h.Mean()
	if !ok || mean != 150 {
		t.Fatalf("got mean=%d ok=%v, want 150/true", mean, ok)
	}
}

func TestDetectNeverReportsWithinEdgeSkipBand(t *testing.T) {
	cfg := DefaultConfig()
	frame := solidGrayFrame(640, 480, 40)
	// Paint a rail pair entirely inside the forbidden left edge band.
	paintRailPixel(frame, 10, cfg.TableY)
	paintRailPixel(frame, 10+cfg.RailPairWidthPx, cfg.TableY)

	d := New(cfg)
	obs := d.Detect(frame, nil)
	if obs.TableX.Ok {
		t.Fatalf("expected no detection inside edge-skip band, got %+v", obs.TableX)
	}
}

func TestDetectDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	frame := solidGrayFrame(640, 480, 40)
	paintRailPixel(frame, 200, cfg.TableY)
	paintRailPixel(frame, 200+cfg.RailPairWidthPx, cfg.TableY)

	d1, d2 := New(cfg), New(cfg)
	obs1 := d1.Detect(frame, nil)
	obs2 := d2.Detect(frame, nil)
	if obs1 != obs2 {
		t.Fatalf("expected deterministic output: %+v vs %+v", obs1, obs2)
	}
}
