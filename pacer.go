package cavegen

import (
	"context"
	"time"

	"github.com/gocave/cavegen/render"
)

// Pacer decides when the driver may advance to the next frame and
// surfaces user-triggered abort. Root paces against a window's
// tick/event loop; every other rank free-runs — both answer the same
// question, they just answer it differently.
type Pacer interface {
	// Await blocks until the driver may proceed, or ctx is canceled,
	// or the pacer itself observes an abort signal (a window close or
	// key-up). It returns false when the run should stop.
	Await(ctx context.Context) bool
}

// HeadlessPacer never waits: every call to Await immediately returns
// true unless ctx is already canceled.
type HeadlessPacer struct{}

func (HeadlessPacer) Await(ctx context.Context) bool {
	return ctx.Err() == nil
}

// GraphicPacer paces the driver against a render.Window's tick/event
// loop: it waits for the window to signal a tick, and treats a close
// or key-up event as an immediate whole-job abort. MaxFrameRate additionally
// caps the rate at which Await returns, independent of whatever cadence
// the window's own tick runs at: a zero MaxFrameRate leaves the window's
// tick as the only pacing in effect.
type GraphicPacer struct {
	Window       render.Window
	MaxFrameRate int

	last time.Time
}

func (p *GraphicPacer) Await(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	p.Window.AwaitTick()
	switch p.Window.PollEvent() {
	case render.EventClose, render.EventKeyUp:
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	p.throttle()
	return true
}

// throttle sleeps off whatever's left of one frame interval since the
// previous call, so Await never returns faster than MaxFrameRate times
// per second. A non-positive MaxFrameRate disables the cap entirely.
func (p *GraphicPacer) throttle() {
	if p.MaxFrameRate <= 0 {
		return
	}
	interval := time.Second / time.Duration(p.MaxFrameRate)
	if !p.last.IsZero() {
		if elapsed := time.Since(p.last); elapsed < interval {
			time.Sleep(interval - elapsed)
		}
	}
	p.last = time.Now()
}
