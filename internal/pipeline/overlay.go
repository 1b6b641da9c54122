package pipeline

import (
	"fmt"

	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/control"
	"github.com/tablerail/railalign/internal/raildetect"
)

var (
	colorWhite  = canvas.RGB{R: 255, G: 255, B: 255}
	colorGreen  = canvas.RGB{G: 200}
	colorAmber  = canvas.RGB{R: 220, G: 150}
	colorRed    = canvas.RGB{R: 220}
	colorMarker = canvas.RGB{G: 255}
)

// drawOverlay paints the spec's user-visible rail/motor status messages,
// the rolling FPS, and (when debug is enabled) small marker triangles over
// the detected rail x-positions.
func drawOverlay(cv *canvas.Canvas, obs raildetect.Observation, res control.Result, debug bool, fps float64) {
	railText, railColor := railMessage(obs, res.Decision)
	cv.Text(canvas.Point{X: 12, Y: 10}, railText, canvas.TextStyle{Color: railColor})

	motorText, motorColor := motorMessage(res.Mode)
	if motorText != "" {
		cv.Text(canvas.Point{X: 12, Y: 32}, motorText, canvas.TextStyle{Color: motorColor})
	}

	fpsLine := fmt.Sprintf("%.1f fps", fps)
	cv.Text(canvas.Point{X: canvas.Width - 120, Y: 10}, fpsLine, canvas.TextStyle{Color: colorWhite})

	if !debug {
		return
	}
	if obs.TableX.Ok {
		markTriangle(cv, int(obs.TableX.Value), 346, colorMarker)
	}
	if obs.LayoutX.Ok {
		markTriangle(cv, int(obs.LayoutX.Value), 368, canvas.RGB{B: 255})
	}
}

// railMessage renders the spec's rail-status message: red "[ NO RAIL ]"
// when either rail is absent from the observation, green "RAILS ALIGNED"
// when the controller judged the rails aligned, and an in-progress
// "MOVING LEFT"/"MOVING RIGHT" otherwise.
func railMessage(obs raildetect.Observation, decision control.Decision) (string, canvas.RGB) {
	if !obs.TableX.Ok || !obs.LayoutX.Ok {
		return "[ NO RAIL ]", colorRed
	}
	switch decision {
	case control.DecisionAligned:
		return "RAILS ALIGNED", colorGreen
	case control.DecisionMoveLeft:
		return "MOVING LEFT", colorAmber
	case control.DecisionMoveRight:
		return "MOVING RIGHT", colorAmber
	default:
		return "", colorWhite
	}
}

// motorMessage renders the spec's motor-status message: red
// "MOTOR MOVING / AUTO-MOVE OFF" while the motor is busy, green
// "MOTOR STOPPED / AUTO-MOVE OFF" once it has gone stale. IDLE_ACTIVE and
// IDLE_EXHAUSTED have no dedicated motor-line message.
func motorMessage(mode control.Mode) (string, canvas.RGB) {
	switch mode {
	case control.ModeMotorBusy:
		return "MOTOR MOVING / AUTO-MOVE OFF", colorRed
	case control.ModeIdleStale:
		return "MOTOR STOPPED / AUTO-MOVE OFF", colorGreen
	default:
		return "", colorWhite
	}
}

func markTriangle(cv *canvas.Canvas, x, y int, color canvas.RGB) {
	apex := canvas.Point{X: x, Y: y - 10}
	left := canvas.Point{X: x - 6, Y: y}
	right := canvas.Point{X: x + 6, Y: y}
	cv.Triangle(apex, left, right, &color, nil)
}
