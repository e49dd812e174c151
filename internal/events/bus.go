// Package events fans committed draft events out to in-process listeners.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alexanderramin/inbox/internal/domain"
)

// DefaultBuffer is the per-subscription queue length.
const DefaultBuffer = 32

// Handler is invoked synchronously for every published event.
type Handler func(ctx context.Context, event domain.DraftEvent)

// Subscription is a buffered stream of events for one user, or for every
// user when UserID is empty. Events are dropped when the buffer is full.
type Subscription struct {
	UserID string
	C      <-chan domain.DraftEvent

	ch      chan domain.DraftEvent
	bus     *Bus
	once    sync.Once
	dropped uint64
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

// Dropped reports how many events were discarded because C was full.
func (s *Subscription) Dropped() uint64 {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	return s.dropped
}

// Bus is safe for concurrent use. Publish never blocks on a slow subscriber.
type Bus struct {
	mu       sync.RWMutex
	subs     map[*Subscription]struct{}
	handlers []Handler
	buffer   int
	logger   *slog.Logger
}

type Option func(*Bus)

func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[*Subscription]struct{}),
		buffer: DefaultBuffer,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handle registers a synchronous handler. Handlers run in registration order
// on the publishing goroutine and must not block.
func (b *Bus) Handle(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Subscribe opens a subscription for userID. An empty userID receives all events.
func (b *Bus) Subscribe(userID string) *Subscription {
	ch := make(chan domain.DraftEvent, b.buffer)
	sub := &Subscription{UserID: userID, C: ch, ch: ch, bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Publish delivers event to handlers and matching subscriptions.
func (b *Bus) Publish(ctx context.Context, event domain.DraftEvent) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, event)
	}

	// Held for writing so Close cannot race a send on a closed channel.
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if sub.UserID != "" && sub.UserID != event.UserID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			sub.dropped++
			b.logger.WarnContext(ctx, "event_dropped",
				"event", string(event.Name),
				"draft_id", event.DraftID,
				"subscriber", sub.UserID,
			)
		}
	}
}

// Subscribers reports the number of open subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
