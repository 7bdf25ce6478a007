package hgraph

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PushAdapter is a long-running external producer: it reads from whatever
// outside source it wraps (a socket, a channel, a timer) and enqueues
// PushCommands onto inbox until ctx is cancelled.
type PushAdapter func(ctx context.Context, inbox *PushInbox) error

// PushAdapterPool is worker_pool.go's workerPool adapted from a
// request/response job dispatcher to a fixed set of long-running producer
// goroutines, each feeding the same PushInbox. Where workerPool hands each
// job a result channel, adapters here run for the pool's whole lifetime and
// their only output is what they push onto the inbox, so an errgroup.Group
// (first adapter error cancels the rest) replaces the teacher's
// channel-plus-jobHandle bookkeeping.
type PushAdapterPool struct {
	inbox   *PushInbox
	group   *errgroup.Group
	cancel  context.CancelFunc
	once    sync.Once
	started bool
}

// NewPushAdapterPool constructs a pool feeding inbox.
func NewPushAdapterPool(inbox *PushInbox) *PushAdapterPool {
	return &PushAdapterPool{inbox: inbox}
}

// Start launches every adapter in its own goroutine under ctx. Must be
// called at most once.
func (p *PushAdapterPool) Start(ctx context.Context, adapters ...PushAdapter) {
	if p.started {
		return
	}
	p.started = true
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	group, groupCtx := errgroup.WithContext(runCtx)
	p.group = group
	for _, adapter := range adapters {
		adapter := adapter
		group.Go(func() error { return adapter(groupCtx, p.inbox) })
	}
}

// Stop cancels every adapter and waits for them to return, returning the
// first non-context-cancellation error, if any.
func (p *PushAdapterPool) Stop() error {
	var err error
	p.once.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		if p.group != nil {
			if werr := p.group.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
				err = werr
			}
		}
	})
	return err
}
