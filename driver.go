package cavegen

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocave/cavegen/internal/mesh"
	"github.com/gocave/cavegen/internal/parallel"
	"github.com/gocave/cavegen/internal/stepper"
	"github.com/gocave/cavegen/internal/transport"
	"github.com/gocave/cavegen/render"
)

// Driver runs one simulation to completion: it owns the Engine plus
// the one windowing collaborator root draws into, and implements the
// fixed per-frame phase ordering: gather+draw, halo exchange, local
// step, buffer swap.
type Driver struct {
	Engine *Engine
	Window render.Window
}

// NewDriver pairs an Engine with the window root will draw into. win
// may be nil; a nil window and a false Config.ShowGraphics both mean
// "headless".
func NewDriver(e *Engine, win render.Window) *Driver {
	return &Driver{Engine: e, Window: win}
}

// Run drives every rank's goroutine through scatter and the
// per-generation loop (gather+draw on root when graphics are enabled,
// halo exchange, local step, buffer swap); there is no final gather
// after the last generation. It returns
// once every rank has stopped: at Config.LastGeneration generations, at
// Config.Unbounded() forever until ctx is canceled, or immediately on
// ErrAborted when the pacer observes a window close or key-up.
func (d *Driver) Run(ctx context.Context) (RunMetrics, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := d.Engine.Config
	m := d.Engine.Mesh
	tp := d.Engine.Transport
	n := m.Size()
	innerRows, innerCols := d.Engine.InnerDims()
	rule := d.Engine.Rule()

	win := d.Window
	drawEnabled := cfg.ShowGraphics && win != nil
	if cfg.ShowGraphics && win == nil {
		drawEnabled = false
	}
	if drawEnabled {
		if err := win.Init(); err != nil {
			Logger().Warn("window init failed, continuing headless", "error", &WindowError{Err: err})
			drawEnabled = false
			win = nil
		}
	}

	pacerName := "headless"
	if drawEnabled {
		pacerName = "graphic"
	}
	pacer, err := PacerForMode(pacerName, cfg, win)
	if err != nil {
		return RunMetrics{}, err
	}

	var painter *render.Painter
	if drawEnabled {
		cw, ch := cfg.CellDims()
		if cw < 1 {
			cw = 1
		}
		if ch < 1 {
			ch = 1
		}
		canvas := render.NewCanvas(cfg.Cols*cw, cfg.Rows*ch)
		theme := render.Theme{
			CellWidth:  cw,
			CellHeight: ch,
			WallColor:  cfg.WallRGBA(),
			FloorColor: cfg.FloorRGBA(),
			GridColor:  cfg.ThreadsGridRGBA(),
			DrawGrid:   cfg.DrawThreadsGrid,
		}
		painter = render.NewPainter(canvas, theme)
	}

	rng := rand.New(rand.NewSource(cfg.RandSeed))

	rankMetrics := make([]FrameMetrics, n)
	var mu sync.Mutex
	var firstErr error
	var aborted atomic.Bool
	fail := func(rank int, err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = &MessagingError{Rank: rank, Err: err}
		}
		mu.Unlock()
		cancel()
	}

	start := time.Now()

	pool := parallel.Run(n, func(rank int) {
		state := d.Engine.NewRankState(rank)

		if transport.Rank(rank) == transport.Root {
			if err := transport.ScatterRoot(ctx, tp, m, innerRows, innerCols, cfg.InitialFillPerc, rng); err != nil {
				fail(rank, err)
				return
			}
		}
		if err := transport.ScatterInto(ctx, tp, transport.Rank(rank), state.Read, state.Write); err != nil {
			fail(rank, err)
			return
		}

		for gen := 0; cfg.Unbounded() || gen < cfg.LastGeneration; gen++ {
			if rank == int(transport.Root) {
				if !pacer.Await(ctx) {
					aborted.Store(true)
					cancel()
				}
			}
			if ctx.Err() != nil {
				return
			}

			frameStart := time.Now()

			if drawEnabled {
				drawStart := time.Now()
				if rank == int(transport.Root) {
					win.Present(painter.Canvas())
					painter.BeginFrame()
				}
				if err := transport.GatherFrom(ctx, tp, transport.Rank(rank), state.Read); err != nil {
					fail(rank, err)
					return
				}
				if rank == int(transport.Root) {
					chunks, err := transport.GatherRoot(ctx, tp, n, innerRows, innerCols)
					if err != nil {
						fail(rank, err)
						return
					}
					painter.Paint(buildGridFrames(chunks, m, innerRows, innerCols))
					painter.EndFrame()
				}
				state.Metrics.Draw += time.Since(drawStart)
			}

			haloStart := time.Now()
			if err := transport.HaloExchange(ctx, tp, rank, m, state.Desc, state.Read); err != nil {
				fail(rank, err)
				return
			}
			state.Metrics.Communication += time.Since(haloStart)

			stepStart := time.Now()
			stepper.Step(state.Write, state.Read, rule)
			state.Metrics.Generation += time.Since(stepStart)

			state.Swap()
			state.Metrics.Total += time.Since(frameStart)
		}

		mu.Lock()
		rankMetrics[rank] = state.Metrics
		mu.Unlock()
	})
	pool.Wait()

	end := time.Now()
	if drawEnabled {
		win.Close()
	}

	// aborted takes priority over firstErr: a pacer-triggered cancel can
	// cause other ranks' blocked Send/Recv/Gather calls to surface their
	// own ctx-cancellation error, which would otherwise look like a
	// genuine messaging failure instead of the abort that caused it.
	if aborted.Load() {
		return RunMetrics{}, ErrAborted
	}
	if firstErr != nil {
		return RunMetrics{}, firstErr
	}

	root := rankMetrics[transport.Root]
	result := RunMetrics{
		Totals: FrameMetrics{
			Communication: root.Communication,
			Generation:    root.Generation,
			Draw:          root.Draw,
			Total:         end.Sub(start),
		},
		Start:          start,
		End:            end,
		ShowGraphics:   cfg.ShowGraphics,
		IsParallel:     cfg.IsParallel,
		NProcs:         n,
		XThreads:       cfg.XThreads,
		YThreads:       cfg.YThreads,
		Cols:           cfg.Cols,
		Rows:           cfg.Rows,
		Radius:         cfg.NeighbourRadius,
		Roughness:      cfg.Roughness,
		ConfigFilePath: cfg.ConfigFilePath,
	}
	return result, nil
}

// buildGridFrames places root's gathered per-rank chunks at their mesh
// coordinates, ready for Painter.Paint.
func buildGridFrames(chunks [][]byte, m mesh.Mesh, innerRows, innerCols int) []render.GridFrame {
	frames := make([]render.GridFrame, len(chunks))
	for rank, chunk := range chunks {
		cy, cx := m.Coords(rank)
		frames[rank] = render.GridFrame{
			TileRow: cy,
			TileCol: cx,
			Rows:    innerRows,
			Cols:    innerCols,
			Cells:   chunk,
		}
	}
	return frames
}
