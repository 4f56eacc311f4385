package transport

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gocave/cavegen/internal/mesh"
	"github.com/gocave/cavegen/internal/tile"
)

// GenerateGlobalGrid fills the full rows*cols grid, row-major, one
// rng draw per cell: wall if rng.Intn(100) < fillPercent else floor.
// It is called exactly once, by root, never per-rank. Generating the
// whole grid before partitioning it — rather than drawing a fresh,
// independent random fill per rank's tile — is what keeps a parallel
// run's initial tile content byte-identical to the matching quadrant
// of a serial run over the same seed: both draw from the identical
// RNG sequence in the identical traversal order, regardless of
// P_y/P_x.
func GenerateGlobalGrid(rows, cols, fillPercent int, rng *rand.Rand) []byte {
	grid := make([]byte, rows*cols)
	for i := range grid {
		if rng.Intn(100) < fillPercent {
			grid[i] = tile.Wall
		} else {
			grid[i] = tile.Floor
		}
	}
	return grid
}

// ChunksFromGlobalGrid slices global (rows x cols, row-major) into m's
// per-rank inner_rows x inner_cols tiles, in rank order, ready for
// Transport.Scatter.
func ChunksFromGlobalGrid(global []byte, cols int, m mesh.Mesh, innerRows, innerCols int) [][]byte {
	chunks := make([][]byte, m.Size())
	for rank := 0; rank < m.Size(); rank++ {
		cy, cx := m.Coords(rank)
		chunk := make([]byte, innerRows*innerCols)
		for y := 0; y < innerRows; y++ {
			srcStart := (cy*innerRows+y)*cols + cx*innerCols
			copy(chunk[y*innerCols:(y+1)*innerCols], global[srcStart:srcStart+innerCols])
		}
		chunks[rank] = chunk
	}
	return chunks
}

// ScatterRoot is root's side of the collective scatter: it generates
// the global grid and slices it into m's per-rank tiles, then hands
// the result to tp.Scatter. Only the rank that owns tp's root half
// should call this.
func ScatterRoot(ctx context.Context, tp Transport, m mesh.Mesh, innerRows, innerCols, fillPercent int, rng *rand.Rand) error {
	py, px := m.Shape()
	rows, cols := py*innerRows, px*innerCols
	global := GenerateGlobalGrid(rows, cols, fillPercent, rng)
	chunks := ChunksFromGlobalGrid(global, cols, m, innerRows, innerCols)
	return tp.Scatter(ctx, chunks)
}

// ScatterInto is every rank's side of the collective scatter,
// including root's: it receives this rank's chunk into read's inner
// region, then copies read to write so both start identical.
func ScatterInto(ctx context.Context, tp Transport, rank Rank, read, write *tile.Tile) error {
	buf := make([]byte, read.InnerRows*read.InnerCols)
	if err := tp.ScatterRecv(ctx, rank, buf); err != nil {
		return fmt.Errorf("transport: scatter recv for rank %d: %w", rank, err)
	}
	read.FillInner(buf)
	write.CopyFrom(read)
	return nil
}

// GatherFrom is every rank's side of the collective gather, including
// root's: it packs read's inner region and sends it to root.
func GatherFrom(ctx context.Context, tp Transport, rank Rank, read *tile.Tile) error {
	buf := make([]byte, read.InnerRows*read.InnerCols)
	read.CopyInnerTo(buf)
	if err := tp.GatherSend(ctx, rank, buf); err != nil {
		return fmt.Errorf("transport: gather send from rank %d: %w", rank, err)
	}
	return nil
}

// GatherRoot is root's side of the collective gather: it blocks until
// every rank's chunk has arrived and returns them indexed by rank, in
// the same concatenated layout Scatter distributed from.
func GatherRoot(ctx context.Context, tp Transport, n, innerRows, innerCols int) ([][]byte, error) {
	return tp.Gather(ctx, n, innerRows*innerCols)
}
