package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const notifierLogPrefix = "status:notifier"

// DefaultSettleDelay is how long the notifier waits before pushing, giving an
// invoked operation's side effects (e.g. a changed temperature setpoint) time
// to show up in observable printer state. Eventually consistent, not a hard
// guarantee.
const DefaultSettleDelay = 200 * time.Millisecond

// Notifier runs a single background worker that waits the settle delay after
// each scheduled push request and then invokes the push function. Requests
// arriving while one is pending are coalesced.
type Notifier struct {
	push   func(ctx context.Context) error
	settle time.Duration

	queue     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewNotifier creates and starts a Notifier. A settle delay of zero or less
// falls back to DefaultSettleDelay.
func NewNotifier(push func(ctx context.Context) error, settle time.Duration) *Notifier {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	n := &Notifier{
		push:   push,
		settle: settle,
		queue:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// ScheduleStatusPush enqueues a push request. Never blocks: if a push is
// already pending it will cover this request too.
func (n *Notifier) ScheduleStatusPush() {
	select {
	case n.queue <- struct{}{}:
	default:
	}
}

// Close stops the worker. Pending requests are abandoned.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
	n.wg.Wait()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			return
		case <-n.queue:
			select {
			case <-n.done:
				return
			case <-time.After(n.settle):
			}
			if err := n.push(context.Background()); err != nil {
				slog.Error(fmt.Sprintf("%s - status push failed: %v", notifierLogPrefix, err))
			}
		}
	}
}
