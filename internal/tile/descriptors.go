package tile

import "github.com/gocave/cavegen/internal/mesh"

// View is a reusable strided buffer-view template: Blocks contiguous
// runs of BlockLen bytes each, Stride bytes apart. A View plus a base
// byte offset into a tile's backing buffer fully describes a
// non-contiguous region without repeating the stride math at every
// call site.
type View struct {
	Blocks   int
	BlockLen int
	Stride   int
}

// Extract copies the view starting at baseOffset in data into a flat,
// tightly packed destination slice of Blocks*BlockLen bytes.
func (v View) Extract(data []byte, baseOffset int) []byte {
	dst := make([]byte, v.Blocks*v.BlockLen)
	v.ExtractInto(data, baseOffset, dst)
	return dst
}

// ExtractInto copies the view into a caller-supplied destination,
// avoiding an allocation on the hot per-generation send path.
func (v View) ExtractInto(data []byte, baseOffset int, dst []byte) {
	for b := 0; b < v.Blocks; b++ {
		srcStart := baseOffset + b*v.Stride
		copy(dst[b*v.BlockLen:(b+1)*v.BlockLen], data[srcStart:srcStart+v.BlockLen])
	}
}

// Inject writes a flat, tightly packed source slice of Blocks*BlockLen
// bytes into the view starting at baseOffset in data.
func (v View) Inject(data []byte, baseOffset int, src []byte) {
	for b := 0; b < v.Blocks; b++ {
		dstStart := baseOffset + b*v.Stride
		copy(data[dstStart:dstStart+v.BlockLen], src[b*v.BlockLen:(b+1)*v.BlockLen])
	}
}

// Len returns the flat byte count (Blocks*BlockLen) a View's packed
// extract/inject buffer must have.
func (v View) Len() int { return v.Blocks * v.BlockLen }

// Descriptors are the five per-process view templates built once from
// a tile's dimensions and reused for every generation's halo exchange
// and every scatter/gather call.
type Descriptors struct {
	// Inner is the inner_rows x inner_cols subarray at offset (R,R).
	Inner View
	// ColumnStripe is inner_rows blocks of R bytes, used for left/right halos.
	ColumnStripe View
	// RowStripe is R blocks of inner_cols bytes, used for top/bottom halos.
	RowStripe View
	// Corner is R blocks of R bytes, used for the four diagonal halos.
	Corner View
	// InnerContig is a flat inner_rows*inner_cols contiguous block, used
	// root-side during scatter/gather.
	InnerContig View

	t *Tile
}

// BuildDescriptors constructs the five view templates for t's dimensions.
func BuildDescriptors(t *Tile) Descriptors {
	return Descriptors{
		Inner:        View{Blocks: t.InnerRows, BlockLen: t.InnerCols, Stride: t.OuterCols},
		ColumnStripe: View{Blocks: t.InnerRows, BlockLen: t.Radius, Stride: t.OuterCols},
		RowStripe:    View{Blocks: t.Radius, BlockLen: t.InnerCols, Stride: t.OuterCols},
		Corner:       View{Blocks: t.Radius, BlockLen: t.Radius, Stride: t.OuterCols},
		InnerContig:  View{Blocks: t.InnerRows, BlockLen: t.InnerCols, Stride: t.InnerCols},
		t:            t,
	}
}

// Offsets for the eight halo regions a generation's exchange reads from
// and writes to. Receive offsets land in the halo itself; send offsets
// mirror them, offset by R cells inward into the matching inner slab.
type haloOffsets struct {
	recv, send int
}

func (d Descriptors) left() haloOffsets {
	r := d.t.Radius
	return haloOffsets{recv: d.t.LeftHaloStart(), send: d.t.LeftHaloStart() + r}
}

func (d Descriptors) right() haloOffsets {
	r := d.t.Radius
	return haloOffsets{recv: d.t.RightHaloStart(), send: d.t.RightHaloStart() - r}
}

func (d Descriptors) top() haloOffsets {
	r := d.t.Radius
	return haloOffsets{recv: d.t.TopHaloStart(), send: d.t.TopHaloStart() + r*d.t.OuterCols}
}

func (d Descriptors) bottom() haloOffsets {
	r := d.t.Radius
	return haloOffsets{recv: d.t.BottomHaloStart(), send: d.t.BottomHaloStart() - r*d.t.OuterCols}
}

func (d Descriptors) topLeft() haloOffsets {
	r := d.t.Radius
	recv := 0
	send := recv + r*d.t.OuterCols + r
	return haloOffsets{recv: recv, send: send}
}

func (d Descriptors) topRight() haloOffsets {
	r := d.t.Radius
	recv := r + d.t.InnerCols
	send := recv + r*d.t.OuterCols - r
	return haloOffsets{recv: recv, send: send}
}

func (d Descriptors) bottomLeft() haloOffsets {
	r := d.t.Radius
	recv := d.t.OuterCols * (d.t.InnerRows + r)
	send := recv - r*d.t.OuterCols + r
	return haloOffsets{recv: recv, send: send}
}

func (d Descriptors) bottomRight() haloOffsets {
	r := d.t.Radius
	recv := d.t.OuterCols*(d.t.InnerRows+r) + r + d.t.InnerCols
	send := recv - r*d.t.OuterCols - r
	return haloOffsets{recv: recv, send: send}
}

// ForDirection returns the view geometry and the (recvOffset, sendOffset)
// pair for one of the eight halo directions, the single entry point
// HaloExchange uses to avoid duplicating per-direction stride math.
func (d Descriptors) ForDirection(dir mesh.Direction) (view View, recvOffset, sendOffset int) {
	var off haloOffsets
	switch dir {
	case mesh.West:
		view, off = d.ColumnStripe, d.left()
	case mesh.East:
		view, off = d.ColumnStripe, d.right()
	case mesh.North:
		view, off = d.RowStripe, d.top()
	case mesh.South:
		view, off = d.RowStripe, d.bottom()
	case mesh.NorthWest:
		view, off = d.Corner, d.topLeft()
	case mesh.NorthEast:
		view, off = d.Corner, d.topRight()
	case mesh.SouthWest:
		view, off = d.Corner, d.bottomLeft()
	case mesh.SouthEast:
		view, off = d.Corner, d.bottomRight()
	default:
		panic("tile: ForDirection called with a non-directional value")
	}
	return view, off.recv, off.send
}
