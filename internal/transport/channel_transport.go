package transport

import (
	"context"
	"fmt"
	"sync"
)

// mailKey identifies one (sender, receiver, tag) message slot. Every
// slot is used at most once per generation by the halo protocol, once
// per run by scatter, and once per drawn frame by gather, so a buffered
// channel of capacity 1 holds one pending message per slot; a second
// Send to a slot blocks until the first has been received.
type mailKey struct {
	from, to Rank
	tag      Tag
}

// ChannelTransport is the production Transport: one goroutine per
// rank (started by internal/parallel.RankPool, not by this package)
// exchanging []byte messages over per-(from,to,tag) buffered channels
// instead of a real MPI runtime. Cancellation is threaded through
// every blocking operation via ctx: wait for the operation, but give
// up the instant ctx is canceled.
type ChannelTransport struct {
	mu        sync.Mutex
	mailboxes map[mailKey]chan []byte
}

// NewChannelTransport constructs a transport ready to carry messages
// between n ranks. Mailboxes are created lazily on first use, so n is
// only a hint; Gather's own n argument is what actually bounds its
// receive loop.
func NewChannelTransport(n int) *ChannelTransport {
	return &ChannelTransport{
		mailboxes: make(map[mailKey]chan []byte),
	}
}

func (c *ChannelTransport) mailbox(key mailKey) chan []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.mailboxes[key]
	if !ok {
		ch = make(chan []byte, 1)
		c.mailboxes[key] = ch
	}
	return ch
}

// Send copies data and delivers it to the (from,to,tag) mailbox,
// returning as soon as the copy is handed off (or ctx is canceled).
// This is fire-and-forget from the caller's point of view: the
// matching Recv is what actually blocks.
func (c *ChannelTransport) Send(ctx context.Context, from, to Rank, tag Tag, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	ch := c.mailbox(mailKey{from: from, to: to, tag: tag})
	select {
	case ch <- cp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks until a message tagged tag arrives from `from`, then
// copies it into dst.
func (c *ChannelTransport) Recv(ctx context.Context, from, self Rank, tag Tag, dst []byte) error {
	ch := c.mailbox(mailKey{from: from, to: self, tag: tag})
	select {
	case msg := <-ch:
		if len(msg) != len(dst) {
			return fmt.Errorf("transport: recv length mismatch: got %d bytes, want %d", len(msg), len(dst))
		}
		copy(dst, msg)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scatter is root's half of the collective scatter: it hands chunks[r]
// to rank r's ScatterRecv, including root's own chunk (r == Root),
// over the dedicated scatter tag.
func (c *ChannelTransport) Scatter(ctx context.Context, chunks [][]byte) error {
	for r, chunk := range chunks {
		if err := c.Send(ctx, Root, Rank(r), tagScatter, chunk); err != nil {
			return fmt.Errorf("transport: scatter to rank %d: %w", r, err)
		}
	}
	return nil
}

// ScatterRecv is every rank's half of Scatter, including root's.
func (c *ChannelTransport) ScatterRecv(ctx context.Context, self Rank, dst []byte) error {
	return c.Recv(ctx, Root, self, tagScatter, dst)
}

// GatherSend is every rank's half of Gather, including root's: it
// sends this rank's inner-region chunk to root over the dedicated
// gather tag.
func (c *ChannelTransport) GatherSend(ctx context.Context, self Rank, data []byte) error {
	return c.Send(ctx, self, Root, tagGather, data)
}

// Gather is root's half of the collective gather: it blocks until all
// n ranks (root included) have called GatherSend, and returns their
// chunks indexed by rank.
func (c *ChannelTransport) Gather(ctx context.Context, n int, chunkLen int) ([][]byte, error) {
	out := make([][]byte, n)
	for r := 0; r < n; r++ {
		dst := make([]byte, chunkLen)
		if err := c.Recv(ctx, Rank(r), Root, tagGather, dst); err != nil {
			return nil, fmt.Errorf("transport: gather from rank %d: %w", r, err)
		}
		out[r] = dst
	}
	return out, nil
}
