package transport

import (
	"context"
	"fmt"

	"github.com/gocave/cavegen/internal/mesh"
	"github.com/gocave/cavegen/internal/tile"
)

// sendOrder is the order the eight non-blocking sends go out in: left,
// right, top, bottom, then the four corners.
var sendOrder = mesh.AllDirections

// recvOrder is the order the eight blocking receives come in: right
// halo (from the right neighbor), left, bottom, top, then the four
// corners.
var recvOrder = []mesh.Direction{
	mesh.East, mesh.West, mesh.South, mesh.North,
	mesh.NorthEast, mesh.NorthWest, mesh.SouthEast, mesh.SouthWest,
}

// HaloExchange performs one generation's ghost-cell refresh for rank:
// it fires all eight directional sends, then issues the eight
// blocking receives in recvOrder, injecting each arrival into t's halo
// via desc. Directions with no neighbor (mesh edges) are skipped in
// both passes; their halo stays whatever it was pinned to (wall, by
// tile.New and never overwritten since).
func HaloExchange(ctx context.Context, tp Transport, rank int, m mesh.Mesh, desc tile.Descriptors, t *tile.Tile) error {
	for _, dir := range sendOrder {
		neighbor := m.Neighbor(rank, dir)
		if neighbor == mesh.NoRank {
			continue
		}
		view, _, sendOffset := desc.ForDirection(dir)
		data := view.Extract(t.Data(), sendOffset)
		if err := tp.Send(ctx, Rank(rank), Rank(neighbor), directionTags[dir], data); err != nil {
			return fmt.Errorf("transport: halo send to rank %d (%+v): %w", neighbor, dir, err)
		}
	}

	for _, dir := range recvOrder {
		neighbor := m.Neighbor(rank, dir)
		if neighbor == mesh.NoRank {
			continue
		}
		view, recvOffset, _ := desc.ForDirection(dir)
		buf := make([]byte, view.Len())
		tag := directionTags[opposite[dir]]
		if err := tp.Recv(ctx, Rank(neighbor), Rank(rank), tag, buf); err != nil {
			return fmt.Errorf("transport: halo recv from rank %d (%+v): %w", neighbor, dir, err)
		}
		view.Inject(t.Data(), recvOffset, buf)
	}

	return nil
}
