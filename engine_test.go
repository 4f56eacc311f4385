package cavegen

import (
	"testing"

	"github.com/gocave/cavegen/internal/tile"
)

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsParallel = true
	cfg.XThreads, cfg.YThreads = 3, 2 // 6 ranks, but serial/parallel mesh math below won't match rows/cols
	cfg.Rows, cfg.Cols = 13, 12       // not divisible by YThreads=2
	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("NewEngine should reject an invalid config before resolving a transport")
	}
}

func TestNewEngineResolvesParallelMeshAndTransport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsParallel = true
	cfg.XThreads, cfg.YThreads = 2, 2
	cfg.Rows, cfg.Cols = 12, 12

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.Mesh.Size() != 4 {
		t.Fatalf("Mesh.Size() = %d, want 4", e.Mesh.Size())
	}
	if e.Transport == nil {
		t.Fatal("Engine.Transport should not be nil")
	}

	rows, cols := e.InnerDims()
	if rows != 6 || cols != 6 {
		t.Fatalf("InnerDims() = (%d,%d), want (6,6)", rows, cols)
	}
}

func TestEngineRuleMatchesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NeighbourRadius = 2
	cfg.Roughness = 3
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rule := e.Rule()
	if rule.Radius != 2 || rule.Roughness != 3 {
		t.Fatalf("Rule() = %+v, want Radius=2 Roughness=3", rule)
	}
}

func TestNewRankStateAllocatesWallFilledTilePair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 10, 10
	cfg.NeighbourRadius = 1
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	state := e.NewRankState(0)
	if state.Read.InnerRows != 10 || state.Read.InnerCols != 10 {
		t.Fatalf("Read dims = (%d,%d), want (10,10)", state.Read.InnerRows, state.Read.InnerCols)
	}
	for _, v := range state.Read.Data() {
		if v != tile.Wall {
			t.Fatal("a freshly allocated tile should be entirely Wall")
		}
	}

	orig := state.Read
	state.Swap()
	if state.Write != orig {
		t.Fatal("Swap should move the original Read into Write")
	}
}
