package tile

import (
	"testing"

	"github.com/gocave/cavegen/internal/mesh"
)

func TestViewExtractInject(t *testing.T) {
	// 3 blocks of 2 bytes, stride 5 (simulating a halo column in a 5-wide tile).
	v := View{Blocks: 3, BlockLen: 2, Stride: 5}
	data := make([]byte, 15)
	for i := range data {
		data[i] = byte(i)
	}
	got := v.Extract(data, 1)
	want := []byte{1, 2, 6, 7, 11, 12}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Extract()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	dst := make([]byte, 15)
	v.Inject(dst, 1, want)
	for i := range want {
		if dst[1+(i/2)*5+(i%2)] != want[i] {
			t.Fatalf("Inject did not place bytes at expected stride offsets")
		}
	}
}

func TestForDirectionSendRecvDistinctAndInBounds(t *testing.T) {
	tl := New(6, 6, 2)
	d := BuildDescriptors(tl)

	for _, dir := range mesh.AllDirections {
		view, recvOff, sendOff := d.ForDirection(dir)
		maxExtent := recvOff + (view.Blocks-1)*view.Stride + view.BlockLen
		if maxExtent > len(tl.Data()) {
			t.Fatalf("direction %+v recv region overruns buffer: max %d, len %d", dir, maxExtent, len(tl.Data()))
		}
		maxExtent = sendOff + (view.Blocks-1)*view.Stride + view.BlockLen
		if maxExtent > len(tl.Data()) {
			t.Fatalf("direction %+v send region overruns buffer: max %d, len %d", dir, maxExtent, len(tl.Data()))
		}
		if recvOff == sendOff {
			t.Fatalf("direction %+v has identical send/recv offsets", dir)
		}
	}
}

func TestForDirectionLeftMatchesColumnStripeAtLeftHalo(t *testing.T) {
	tl := New(4, 4, 1)
	d := BuildDescriptors(tl)
	view, recvOff, sendOff := d.ForDirection(mesh.West)

	if recvOff != tl.LeftHaloStart() {
		t.Fatalf("recvOff = %d, want LeftHaloStart() = %d", recvOff, tl.LeftHaloStart())
	}
	if sendOff != tl.InnerTopLeft() {
		t.Fatalf("sendOff = %d, want InnerTopLeft() = %d (first inner column)", sendOff, tl.InnerTopLeft())
	}
	if view.Blocks != tl.InnerRows || view.BlockLen != tl.Radius {
		t.Fatalf("view = %+v, want Blocks=%d BlockLen=%d", view, tl.InnerRows, tl.Radius)
	}
}

func TestInnerViewCoversExactlyTheInnerRegion(t *testing.T) {
	tl := New(3, 5, 2)
	d := BuildDescriptors(tl)
	src := make([]byte, 3*5)
	for i := range src {
		src[i] = byte(i % 2)
	}
	tl.FillInner(src)

	got := d.Inner.Extract(tl.Data(), tl.InnerTopLeft())
	for i := range src {
		if got[i] != src[i] {
			t.Fatalf("Inner view byte %d = %d, want %d", i, got[i], src[i])
		}
	}
}

func TestInnerContigPacksTightlyForScatterGather(t *testing.T) {
	v := View{Blocks: 4, BlockLen: 4, Stride: 4}
	if v.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", v.Len())
	}
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i)
	}
	got := v.Extract(data, 0)
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("contiguous extract should be identity copy, byte %d = %d, want %d", i, got[i], data[i])
		}
	}
}
