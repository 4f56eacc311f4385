// Package transport abstracts the point-to-point and collective
// messaging operations a rank needs: non-blocking send, blocking
// receive, scatter, and gather. Transport is the seam a real MPI or
// gRPC backend would implement; ChannelTransport is the one
// production implementation this repository ships, built from
// goroutines and buffered channels instead of a foreign messaging
// library.
package transport

import "context"

// Tag identifies which of the eight halo directions (or a scatter/
// gather payload) a message carries, so a receiver can match it
// against the right send regardless of arrival order.
type Tag int

// The eight directional tags, plus the two collective tags used
// internally by Scatter/Gather.
const (
	TagLeft Tag = iota
	TagRight
	TagTop
	TagBottom
	TagTopLeft
	TagTopRight
	TagBottomLeft
	TagBottomRight
	tagScatter
	tagGather
)

// Rank identifies a participant in the mesh. Rank 0 is always root.
type Rank int

// Root is the rank that owns scatter/gather and, when graphics are
// enabled, the renderer.
const Root Rank = 0

// Transport is the messaging substrate a rank uses to exchange halo
// regions with its neighbors and to participate in collective
// scatter/gather. Every method is safe to call from the goroutine
// that owns `from`; Transport itself does not serialize access across
// ranks beyond what the channel plumbing guarantees.
type Transport interface {
	// Send issues a non-blocking send of data to `to` tagged `tag`. It
	// copies data before returning, so the caller may reuse or mutate
	// its buffer immediately: the send-source buffer is not touched
	// again once Send returns.
	Send(ctx context.Context, from, to Rank, tag Tag, data []byte) error

	// Recv blocks until a message from `from` tagged `tag` arrives,
	// then copies it into dst (which must be exactly the expected
	// length) and returns. Recv returns ctx.Err() if ctx is canceled
	// first.
	Recv(ctx context.Context, from, self Rank, tag Tag, dst []byte) error

	// Scatter is root-only: it distributes one slice per rank, drawn
	// from chunks, to that rank's Recv counterpart (ScatterRecv).
	// chunks[r] is delivered to rank r, including root itself.
	Scatter(ctx context.Context, chunks [][]byte) error

	// ScatterRecv is the non-root (and root, symmetrically) half of
	// Scatter: it blocks until root's chunk for `self` arrives.
	ScatterRecv(ctx context.Context, self Rank, dst []byte) error

	// Gather is root-only: it blocks until every rank (root included)
	// has called GatherSend, and returns the collected chunks indexed
	// by rank.
	Gather(ctx context.Context, n int, chunkLen int) ([][]byte, error)

	// GatherSend sends this rank's chunk to root for Gather to collect.
	GatherSend(ctx context.Context, self Rank, data []byte) error
}
