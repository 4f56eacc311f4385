package cavegen

import (
	"github.com/gocave/cavegen/internal/mesh"
	"github.com/gocave/cavegen/internal/stepper"
	"github.com/gocave/cavegen/internal/tile"
	"github.com/gocave/cavegen/internal/transport"
)

// Engine is the single owning value a run is built from: one Config,
// one Mesh, and the Transport every rank shares, resolved once at
// construction and passed explicitly to every phase afterward, instead
// of living behind package-level mutable state.
type Engine struct {
	Config    Config
	Mesh      mesh.Mesh
	Transport transport.Transport
}

// NewEngine validates cfg and resolves its transport mode (serial or
// parallel) into a concrete Mesh and Transport pair.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tp, m, err := TransportForMode(TransportModeName(cfg), cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{Config: cfg, Mesh: m, Transport: tp}, nil
}

// InnerDims returns the per-rank inner_rows x inner_cols a tile owns,
// the global grid divided evenly across the mesh shape.
func (e *Engine) InnerDims() (rows, cols int) {
	py, px := e.Mesh.Shape()
	return e.Config.Rows / py, e.Config.Cols / px
}

// Rule builds the stepper.Rule this engine's config describes.
func (e *Engine) Rule() stepper.Rule {
	return stepper.Rule{Radius: e.Config.NeighbourRadius, Roughness: e.Config.Roughness}
}

// RankState is one rank's mutable working set for the run: its
// double-buffered tile pair, the view descriptors built from it, and
// the per-rank timing this rank accumulates across generations.
type RankState struct {
	Rank        int
	Read, Write *tile.Tile
	Desc        tile.Descriptors
	Metrics     FrameMetrics
}

// NewRankState allocates a fresh read/write tile pair sized to e's
// mesh and config, both pre-filled to Wall per tile.New, and builds
// the view descriptors read's dimensions fix for the run's lifetime.
func (e *Engine) NewRankState(rank int) *RankState {
	innerRows, innerCols := e.InnerDims()
	read := tile.New(innerRows, innerCols, e.Config.NeighbourRadius)
	write := tile.New(innerRows, innerCols, e.Config.NeighbourRadius)
	return &RankState{
		Rank:  rank,
		Read:  read,
		Write: write,
		Desc:  tile.BuildDescriptors(read),
	}
}

// Swap exchanges read and write, the double-buffer flip performed
// after every generation's Step.
func (s *RankState) Swap() {
	s.Read, s.Write = s.Write, s.Read
}
