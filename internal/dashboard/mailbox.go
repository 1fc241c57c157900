package dashboard

import (
	"context"
	"sync"
)

// Mailbox is a Publisher backed by a one-slot channel. A snapshot the
// consumer has not picked up yet is replaced by the newer one, so a slow
// presenter never holds up the refresh loop.
type Mailbox struct {
	mu sync.Mutex
	ch chan Snapshot
}

func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Snapshot, 1)}
}

// Publish implements Publisher
func (m *Mailbox) Publish(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- s
}

// C returns the receive side
func (m *Mailbox) C() <-chan Snapshot { return m.ch }

// Forward hands every received snapshot to p until ctx is done
func (m *Mailbox) Forward(ctx context.Context, p Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-m.ch:
			p.Publish(s)
		}
	}
}
