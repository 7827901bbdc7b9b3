package broadcast

import (
	"context"
	"sync"
)

// Message carries one published value.
type Message[T any] struct {
	Data T
}

// Subscriber is the receiving end of a channel subscription.
type Subscriber[T any] interface {
	// Receive returns the message channel. It is closed with the subscriber.
	Receive(ctx context.Context) <-chan Message[T]
	// Close ends the subscription. Repeated calls are no-ops.
	Close() error
}

// Broadcaster fans messages out to channel subscribers without blocking the sender.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Broadcast(ctx context.Context, msg Message[T]) error
	Close() error
}

var _ Broadcaster[int] = (*MemoryBroadcaster[int])(nil)

// subscriber is a buffered channel guarded against send-after-close.
type subscriber[T any] struct {
	mu     sync.RWMutex
	ch     chan Message[T]
	closed bool
}

func newSubscriber[T any](buffer int) *subscriber[T] {
	return &subscriber[T]{ch: make(chan Message[T], buffer)}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] { return s.ch }

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	return nil
}

// send queues msg and reports false when the subscriber is closed or full.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
