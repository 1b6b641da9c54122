// Package pipeline wires capture, decode, rail detection, control, and
// presentation into the per-frame loop the process runs forever, restarting
// itself on any step failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tablerail/railalign/internal/canvas"
	"github.com/tablerail/railalign/internal/capture"
	"github.com/tablerail/railalign/internal/control"
	"github.com/tablerail/railalign/internal/pixfmt"
	"github.com/tablerail/railalign/internal/present"
	"github.com/tablerail/railalign/internal/raildetect"
	"github.com/tablerail/railalign/internal/snapshot"
)

var pipelineLog = log.New(os.Stdout, "[railalign/pipeline] ", log.LstdFlags|log.Lmicroseconds)

// Driver owns the long-running capture/detect/control/present loop.
type Driver struct {
	cfg Config
}

// New returns a Driver configured by cfg.
func New(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

// Run drives the pipeline until ctx is canceled. A failure in any single
// frame step tears the whole session (camera + framebuffer) down and
// restarts it after Config.RestartBackoff, on the theory that a wedged
// V4L2 or framebuffer device is more reliably fixed by reopening it than by
// trying to recover in place.
func (d *Driver) Run(ctx context.Context) error {
	quietConsole()
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := d.runSession(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}

		pipelineLog.Printf("session ended, restarting in %s: %v", d.cfg.RestartBackoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.cfg.RestartBackoff):
		}
	}
}

func (d *Driver) runSession(ctx context.Context) error {
	src, err := capture.Open(d.cfg.VideoDevicePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}
	defer src.Close()

	fb, err := present.OpenDevice(d.cfg.FramebufferPath)
	if err != nil {
		return classifyFramebufferErr(err)
	}
	defer fb.Close()

	cv := canvas.New()
	detCfg := raildetect.DefaultConfig()
	detCfg.Debug = d.cfg.Debug
	detector := raildetect.New(detCfg)
	controller := control.New(d.cfg.ControllerConfig())
	fps := newFPSHistory()

	pipelineLog.Printf("session started: framebuffer=%s video=%s", d.cfg.FramebufferPath, d.cfg.VideoDevicePath)

	frameIdx := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, meta, err := src.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapture, err)
		}
		fps.push(meta.Timestamp)
		frameIdx++

		if d.cfg.UnblankEvery > 0 && frameIdx%d.cfg.UnblankEvery == 0 {
			if err := fb.Unblank(); err != nil {
				pipelineLog.Printf("unblank: %v", err)
			}
		}

		frame, err := decodeFrame(src.Format(), raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}

		cv.Clear()
		blit(cv, frame)

		var dbg *canvas.Canvas
		if d.cfg.Debug {
			dbg = cv
		}
		obs := detector.Detect(frame, dbg)

		motor := control.ReadStatus(d.cfg.MotorIsActivePath, d.cfg.MotorLastActiveMtimePath)
		result := controller.Tick(obs.TableX, obs.LayoutX, motor)

		drawOverlay(cv, obs, result, d.cfg.Debug, fps.rolling())

		info := fb.Info()
		if err := present.Present(cv, info, fb.Mem()); err != nil {
			return classifyFramebufferErr(err)
		}

		if d.cfg.SnapshotPath != "" && d.cfg.SnapshotEvery > 0 && frameIdx%d.cfg.SnapshotEvery == 0 {
			if err := snapshot.Save(cv, d.cfg.SnapshotPath); err != nil {
				pipelineLog.Printf("snapshot: %v", err)
			}
		}

		time.Sleep(2 * time.Millisecond)
	}
}

// classifyFramebufferErr distinguishes an unsupported channel layout
// (ErrUnsupportedFramebufferFormat) from any other framebuffer failure
// (ErrFramebufferMap). Run's restart loop retries both alike.
func classifyFramebufferErr(err error) error {
	var unsupported *pixfmt.ErrUnsupportedFormat
	if errors.As(err, &unsupported) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFramebufferFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrFramebufferMap, err)
}
