package stepper

import (
	"testing"

	"github.com/gocave/cavegen/internal/tile"
)

func TestHalfAndMaxNeighbors(t *testing.T) {
	r := Rule{Radius: 1}
	if got := r.MaxNeighbors(); got != 8 {
		t.Fatalf("MaxNeighbors() = %d, want 8", got)
	}
	if got := r.HalfNeighbors(); got != 4 {
		t.Fatalf("HalfNeighbors() = %d, want 4", got)
	}

	r2 := Rule{Radius: 2}
	if got := r2.MaxNeighbors(); got != 24 {
		t.Fatalf("MaxNeighbors() = %d, want 24", got)
	}
	if got := r2.HalfNeighbors(); got != 12 {
		t.Fatalf("HalfNeighbors() = %d, want 12", got)
	}
}

// Radius zero degenerates to no neighbors: walls is always 0, so the
// hysteresis branch (read[y,x]) fires unless roughness is 0, per
// spec.md §8 boundary behaviors.
func TestRadiusZeroIsIdentityUnlessRoughnessZero(t *testing.T) {
	read := tile.New(2, 2, 0)
	read.FillInner([]byte{1, 0, 0, 1})
	write := tile.New(2, 2, 0)
	write.CopyFrom(read)

	Step(write, read, Rule{Radius: 0, Roughness: 1})

	got := make([]byte, 4)
	write.CopyInnerTo(got)
	want := []byte{1, 0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("R=0 roughness=1: cell %d = %d, want %d (identity)", i, got[i], want[i])
		}
	}
}

func TestRadiusZeroRoughnessZeroCollapsesToMajority(t *testing.T) {
	read := tile.New(2, 2, 0)
	read.FillInner([]byte{1, 0, 0, 1})
	write := tile.New(2, 2, 0)
	write.CopyFrom(read)

	Step(write, read, Rule{Radius: 0, Roughness: 0})

	got := make([]byte, 4)
	write.CopyInnerTo(got)
	// walls=0, H=0, rough=0: walls >= H+rough (0>=0) is true, so every cell becomes Wall.
	for i, v := range got {
		if v != tile.Wall {
			t.Fatalf("R=0 roughness=0: cell %d = %d, want Wall", i, v)
		}
	}
}

// Scenario 3 from spec.md §8: roughness=5 > max_neighbours/2=4, so no
// cell ever flips regardless of neighbor counts.
func TestRoughnessAboveMaxHalfNeverFlips(t *testing.T) {
	read := tile.New(4, 4, 1)
	src := []byte{
		1, 0, 1, 0,
		0, 1, 0, 1,
		1, 1, 0, 0,
		0, 0, 1, 1,
	}
	read.FillInner(src)
	write := tile.New(4, 4, 1)
	write.CopyFrom(read)

	rule := Rule{Radius: 1, Roughness: 5}
	for gen := 0; gen < 3; gen++ {
		Step(write, read, rule)
		read, write = write, read
	}

	got := make([]byte, 16)
	read.CopyInnerTo(got)
	for i := range src {
		if got[i] != src[i] {
			t.Fatalf("cell %d = %d after 3 generations, want unchanged %d", i, got[i], src[i])
		}
	}
}

// Scenario 4 from spec.md §8: all walls with roughness=0 stays all walls
// (every inner cell's neighbors are all walls too).
func TestAllWallsStaysAllWalls(t *testing.T) {
	read := tile.New(6, 6, 1)
	write := tile.New(6, 6, 1)
	write.CopyFrom(read) // both already all-Wall from tile.New

	Step(write, read, Rule{Radius: 1, Roughness: 0})

	got := make([]byte, 36)
	write.CopyInnerTo(got)
	for i, v := range got {
		if v != tile.Wall {
			t.Fatalf("cell %d = %d, want Wall", i, v)
		}
	}
}

func TestStepNeverWritesHalo(t *testing.T) {
	read := tile.New(3, 3, 2)
	write := tile.New(3, 3, 2)
	write.CopyFrom(read)
	// Poison the write halo with a sentinel value distinct from Wall/Floor
	// to catch any write that reaches outside the inner region.
	for i := range write.Data() {
		write.Data()[i] = 0xAA
	}
	// Re-seed the inner region identically on both (CopyFrom already did
	// that, but the poison loop above clobbered it too).
	write.FillInner(func() []byte {
		b := make([]byte, 9)
		read.CopyInnerTo(b)
		return b
	}())

	Step(write, read, Rule{Radius: 2, Roughness: 1})

	for y := 0; y < write.OuterRows; y++ {
		for x := 0; x < write.OuterCols; x++ {
			isInner := y >= 2 && y < 2+3 && x >= 2 && x < 2+3
			if !isInner && write.Get(y, x) != 0xAA {
				t.Fatalf("halo cell (%d,%d) was written by Step", y, x)
			}
		}
	}
}

// One generation of R=1 roughness=1 over a fixed 5x5 grid, checked
// against an expected grid computed directly from the rule rather than
// from the seeded RNG fill (the RNG fill is exercised by the
// internal/transport tests instead).
func TestStepMatchesHandComputedGrid(t *testing.T) {
	// A 5x5 inner region, R=1, roughness=1, a fixed checkerboard-ish
	// pattern whose generation-1 result we compute by hand below.
	src := []byte{
		1, 1, 0, 0, 0,
		1, 1, 0, 0, 0,
		0, 0, 1, 1, 1,
		0, 0, 1, 1, 1,
		0, 0, 1, 1, 1,
	}
	read := tile.New(5, 5, 1)
	read.FillInner(src)
	write := tile.New(5, 5, 1)
	write.CopyFrom(read)

	Step(write, read, Rule{Radius: 1, Roughness: 1})

	got := make([]byte, 25)
	write.CopyInnerTo(got)

	// Hand-computed expected grid for H=4, roughness=1: wall if walls>=5,
	// floor if walls<=3, else identity. Neighbors outside the 5x5 region
	// are Wall (global edge halo).
	at := func(grid []byte, y, x int) byte {
		if y < 0 || y >= 5 || x < 0 || x >= 5 {
			return tile.Wall
		}
		return grid[y*5+x]
	}
	want := make([]byte, 25)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dy == 0 && dx == 0 {
						continue
					}
					if at(src, y+dy, x+dx) == tile.Wall {
						walls++
					}
				}
			}
			switch {
			case walls >= 5:
				want[y*5+x] = tile.Wall
			case walls <= 3:
				want[y*5+x] = tile.Floor
			default:
				want[y*5+x] = src[y*5+x]
			}
		}
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %d, want %d", i, got[i], want[i])
		}
	}
}
