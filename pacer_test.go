package cavegen

import (
	"context"
	"testing"
	"time"

	"github.com/gocave/cavegen/render"
)

// fakeWindow is a render.Window test double: AwaitTick returns immediately,
// and PollEvent replays a scripted queue of events.
type fakeWindow struct {
	events    []render.EventKind
	presented int
	closed    bool
}

func (w *fakeWindow) Init() error { return nil }

func (w *fakeWindow) PollEvent() render.EventKind {
	if len(w.events) == 0 {
		return render.EventNone
	}
	e := w.events[0]
	w.events = w.events[1:]
	return e
}

func (w *fakeWindow) AwaitTick() {}

func (w *fakeWindow) Present(*render.Canvas) { w.presented++ }

func (w *fakeWindow) Close() { w.closed = true }

func TestHeadlessPacerAlwaysProceeds(t *testing.T) {
	p := HeadlessPacer{}
	for i := 0; i < 3; i++ {
		if !p.Await(context.Background()) {
			t.Fatalf("HeadlessPacer.Await returned false on iteration %d", i)
		}
	}
}

func TestHeadlessPacerStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if (HeadlessPacer{}).Await(ctx) {
		t.Fatal("HeadlessPacer.Await should return false once ctx is canceled")
	}
}

func TestGraphicPacerProceedsOnNoEvent(t *testing.T) {
	p := &GraphicPacer{Window: &fakeWindow{}}
	if !p.Await(context.Background()) {
		t.Fatal("GraphicPacer.Await should proceed when no event is pending")
	}
}

func TestGraphicPacerAbortsOnClose(t *testing.T) {
	p := &GraphicPacer{Window: &fakeWindow{events: []render.EventKind{render.EventClose}}}
	if p.Await(context.Background()) {
		t.Fatal("GraphicPacer.Await should abort on EventClose")
	}
}

func TestGraphicPacerAbortsOnKeyUp(t *testing.T) {
	p := &GraphicPacer{Window: &fakeWindow{events: []render.EventKind{render.EventKeyUp}}}
	if p.Await(context.Background()) {
		t.Fatal("GraphicPacer.Await should abort on EventKeyUp")
	}
}

func TestGraphicPacerThrottlesToMaxFrameRate(t *testing.T) {
	p := &GraphicPacer{Window: &fakeWindow{}, MaxFrameRate: 1000}
	start := time.Now()
	for i := 0; i < 3; i++ {
		if !p.Await(context.Background()) {
			t.Fatalf("GraphicPacer.Await returned false on iteration %d", i)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Fatalf("three awaits at 1000fps completed in %v, want at least ~2ms", elapsed)
	}
}
