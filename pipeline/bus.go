package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/geanlabs/beacon/observability/metrics"
)

// Actor consumes events and derives new ones. Each actor runs on its own
// single-consumer queue, so Handle never races with itself.
type Actor interface {
	Name() string
	Handle(ev Event) []Event
}

// DefaultBuffer is the per-actor queue capacity.
const DefaultBuffer = 64

// Bus fans events out to registered actors. Publication never blocks: a
// full actor queue drops its oldest non-critical event instead. NewSlot
// events are never dropped.
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	actors []*registration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type registration struct {
	actor Actor
	kinds map[Kind]struct{}
	queue *inbox
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Register subscribes an actor to the given event kinds. Must be called
// before Start.
func (b *Bus) Register(actor Actor, buffer int, kinds ...Kind) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	subscribed := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		subscribed[k] = struct{}{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actors = append(b.actors, &registration{
		actor: actor,
		kinds: subscribed,
		queue: newInbox(actor.Name(), buffer, b.logger),
	})
}

// Start launches one consumer goroutine per actor.
func (b *Bus) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, reg := range b.actors {
		b.wg.Add(1)
		go func(reg *registration) {
			defer b.wg.Done()
			b.run(reg)
		}(reg)
	}
}

// Stop halts all consumers and waits for them.
func (b *Bus) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.mu.Lock()
	for _, reg := range b.actors {
		reg.queue.close()
	}
	b.mu.Unlock()
	b.wg.Wait()
}

// Publish delivers the event to every subscribed actor without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	actors := b.actors
	b.mu.Unlock()
	for _, reg := range actors {
		if _, ok := reg.kinds[ev.Kind()]; ok {
			reg.queue.push(ev)
		}
	}
}

func (b *Bus) run(reg *registration) {
	for {
		ev, ok := reg.queue.pop(b.ctx)
		if !ok {
			return
		}
		for _, derived := range reg.actor.Handle(ev) {
			b.Publish(derived)
		}
	}
}

// inbox is a bounded FIFO with drop-oldest-non-critical overflow handling.
// A channel cannot evict selectively, so the queue is a mutex-guarded slice
// with a wakeup signal.
type inbox struct {
	name   string
	cap    int
	logger *slog.Logger

	mu     sync.Mutex
	events []Event
	wake   chan struct{}
	closed bool
}

func newInbox(name string, capacity int, logger *slog.Logger) *inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &inbox{
		name:   name,
		cap:    capacity,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

func (q *inbox) push(ev Event) {
	var dropped Event
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if len(q.events) >= q.cap {
		if i := q.oldestDroppableLocked(); i >= 0 {
			dropped = q.events[i]
			q.events = append(q.events[:i], q.events[i+1:]...)
		} else if ev.Kind() != KindNewSlot {
			// Queue is all critical events; shed the newcomer instead.
			q.mu.Unlock()
			q.noteDrop(ev)
			return
		}
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()

	if dropped != nil {
		q.noteDrop(dropped)
	}
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// oldestDroppableLocked returns the index of the oldest non-NewSlot event,
// or -1 when every queued event is critical.
func (q *inbox) oldestDroppableLocked() int {
	for i, ev := range q.events {
		if ev.Kind() != KindNewSlot {
			return i
		}
	}
	return -1
}

func (q *inbox) noteDrop(ev Event) {
	metrics.PipelineDropped.WithLabelValues(q.name).Inc()
	q.logger.Warn("actor queue overflow, dropping event",
		"actor", q.name,
		"kind", ev.Kind().String(),
		"slot", ev.EventSlot(),
	)
}

func (q *inbox) pop(ctx context.Context) (Event, bool) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, false
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return nil, false
		}
	}
}

func (q *inbox) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
