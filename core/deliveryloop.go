package realtime

import (
	"sync"
	"time"

	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/koscakluka/coda-realtime/core/transport"
)

// deliveryItem is either a status transition or an inbound frame.
type deliveryItem struct {
	status   *events.ConnectionStatus
	frame    *transport.Frame
	queuedAt time.Time
}

// deliveryLoop runs every observer callback of a client on one goroutine, in
// the order items were ingested. The queue is unbounded so that ingesting
// never blocks a producer, even when an observer calls back into the client.
type deliveryLoop struct {
	mu     sync.Mutex
	queue  []deliveryItem
	signal chan struct{}

	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	deliver func(deliveryItem)
}

func newDeliveryLoop(deliver func(deliveryItem)) *deliveryLoop {
	return &deliveryLoop{
		signal:  make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		deliver: deliver,
	}
}

func (loop *deliveryLoop) CanIngest() bool {
	if loop == nil {
		return false
	}

	select {
	case <-loop.closeCh:
		return false
	default:
		return true
	}
}

func (loop *deliveryLoop) Start() (started bool) {
	if loop == nil || loop.deliver == nil || !loop.CanIngest() {
		return false
	}

	loop.startOnce.Do(func() {
		started = true
		go func() {
			defer close(loop.done)

			for {
				select {
				case <-loop.closeCh:
					// Items queued before Stop are still delivered.
					loop.drain()
					return
				case <-loop.signal:
					loop.drain()
				}
			}
		}()
	})

	return started
}

// Ingest appends item to the queue. It never blocks.
func (loop *deliveryLoop) Ingest(item deliveryItem) bool {
	if loop == nil || !loop.CanIngest() {
		return false
	}

	loop.mu.Lock()
	loop.queue = append(loop.queue, item)
	loop.mu.Unlock()

	select {
	case loop.signal <- struct{}{}:
	default:
	}
	return true
}

func (loop *deliveryLoop) drain() {
	for {
		loop.mu.Lock()
		if len(loop.queue) == 0 {
			loop.queue = nil
			loop.mu.Unlock()
			return
		}
		item := loop.queue[0]
		loop.queue[0] = deliveryItem{}
		loop.queue = loop.queue[1:]
		loop.mu.Unlock()

		loop.deliver(item)
	}
}

func (loop *deliveryLoop) Stop() {
	if loop == nil {
		return
	}

	loop.endOnce.Do(func() { close(loop.closeCh) })
}

// Done is closed once the loop has delivered everything ingested before
// Stop and exited.
func (loop *deliveryLoop) Done() <-chan struct{} {
	return loop.done
}

func (loop *deliveryLoop) queuedItemCount() int {
	if loop == nil {
		return 0
	}

	loop.mu.Lock()
	defer loop.mu.Unlock()
	return len(loop.queue)
}
