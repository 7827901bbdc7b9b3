package broadcast

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultWatchBuffer is the channel buffer size used by Subject.Watch.
const DefaultWatchBuffer = 16

// Subscription is the handle returned by Subject.Subscribe.
type Subscription struct {
	id      string
	active  atomic.Bool
	once    sync.Once
	release func()
}

func newSubscription() *Subscription {
	return &Subscription{id: uuid.NewString()}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Active reports whether the subscription still receives values.
func (s *Subscription) Active() bool {
	return s != nil && s.active.Load()
}

// Unsubscribe stops delivery. It is idempotent and safe on a nil subscription.
// A delivery pass already in progress skips the subscription once this returns.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.active.Store(false)
		if s.release != nil {
			s.release()
		}
	})
}

type subjectEntry[T any] struct {
	sub   *Subscription
	fn    func(T)
	since uint64 // last sequence number the subscriber has already seen
}

type queuedValue[T any] struct {
	seq   uint64
	value T
}

// Subject holds the latest value of T and notifies subscribers of every new one.
//
// Callbacks run without any lock held, so a callback may call Next, Subscribe
// or Unsubscribe on the same subject. Values published while a delivery pass
// is running are queued and delivered by that pass in publication order.
type Subject[T any] struct {
	mu       sync.RWMutex
	value    T
	seq      uint64
	entries  []subjectEntry[T]
	queue    []queuedValue[T]
	emitting bool
	closed   bool
	fanout   *MemoryBroadcaster[T]
}

// NewSubject creates a subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value:  initial,
		fanout: NewMemoryBroadcaster[T](DefaultWatchBuffer),
	}
}

// Value returns the latest value. It never waits for a delivery pass.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Next stores v and delivers it to every active subscriber in subscription
// order. Channel watchers are fed after the callbacks without blocking.
//
// When no delivery pass is running, Next returns after v was delivered. When
// one is running (Next called from a callback or from another goroutine), v is
// queued and delivered by the running pass once the current value is done.
// Next is a no-op after Close.
func (s *Subject[T]) Next(v T) {
	s.Set(v)
	s.Flush()
}

// Set stores v and queues it for delivery without running any callback.
// Value reports v as soon as Set returns. The queued value is delivered by
// the next Flush or Next.
func (s *Subject[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.seq++
	s.value = v
	s.queue = append(s.queue, queuedValue[T]{seq: s.seq, value: v})
}

// Flush delivers queued values unless a delivery pass is already running.
func (s *Subject[T]) Flush() {
	if !s.acquire() {
		return
	}
	s.drain()
}

// Subscribe registers fn and calls it with the current value before returning.
// fn then receives every value published after that one until the
// subscription ends. A nil fn or a closed subject yields an inactive
// subscription.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	sub := newSubscription()
	if fn == nil {
		return sub
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return sub
	}
	sub.active.Store(true)
	sub.release = func() { s.remove(sub) }
	s.entries = append(s.entries, subjectEntry[T]{sub: sub, fn: fn, since: s.seq})
	current := s.value
	owner := !s.emitting
	if owner {
		// Hold the delivery pass so the replay reaches fn before any newer value.
		s.emitting = true
	}
	s.mu.Unlock()

	if !owner {
		fn(current)
		return sub
	}

	done := false
	defer func() {
		if !done {
			s.release()
		}
	}()
	fn(current)
	done = true
	s.drain()
	return sub
}

// Watch returns a channel subscriber seeded with the current value.
// It is released when ctx ends, when it is closed, or when it falls behind.
func (s *Subject[T]) Watch(ctx context.Context) Subscriber[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seed := Message[T]{Data: s.value}
	return s.fanout.subscribe(ctx, &seed)
}

// Closed reports whether Close was called.
func (s *Subject[T]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Len returns the number of active callback subscriptions.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close ends every subscription, drops queued values and closes channel
// watchers. The last value stays readable through Value.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	entries := s.entries
	s.entries = nil
	s.queue = nil
	s.mu.Unlock()

	for _, e := range entries {
		e.sub.active.Store(false)
	}
	_ = s.fanout.Close()
}

// acquire claims the delivery pass.
func (s *Subject[T]) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emitting || s.closed {
		return false
	}
	s.emitting = true
	return true
}

func (s *Subject[T]) release() {
	s.mu.Lock()
	s.emitting = false
	s.mu.Unlock()
}

// drain delivers queued values in order, then releases the delivery pass.
// The caller must own the pass.
func (s *Subject[T]) drain() {
	released := false
	defer func() {
		if !released {
			s.release()
		}
	}()

	for {
		s.mu.Lock()
		if s.closed || len(s.queue) == 0 {
			s.emitting = false
			released = true
			s.mu.Unlock()
			return
		}
		item := s.queue[0]
		s.queue = s.queue[1:]
		entries := slices.Clone(s.entries)
		s.mu.Unlock()

		for _, e := range entries {
			if e.since < item.seq && e.sub.Active() {
				e.fn(item.value)
			}
		}
		_ = s.fanout.Broadcast(context.Background(), Message[T]{Data: item.value})
	}
}

func (s *Subject[T]) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = slices.DeleteFunc(s.entries, func(e subjectEntry[T]) bool {
		return e.sub == sub
	})
}
