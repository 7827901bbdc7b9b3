package broadcast_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolesim/pkg/broadcast"
)

func TestSubject_ReplaysCurrentValue(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject("none")
	subject.Next("admin")

	var got []string
	sub := subject.Subscribe(func(v string) { got = append(got, v) })
	defer sub.Unsubscribe()

	assert.Equal(t, []string{"admin"}, got, "late subscriber receives the latest value immediately")

	subject.Next("student")
	assert.Equal(t, []string{"admin", "student"}, got)
	assert.Equal(t, "student", subject.Value())
}

func TestSubject_DeliveryOrder(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		subject.Subscribe(func(v int) {
			if v > 0 {
				order = append(order, name)
			}
		})
	}

	subject.Next(1)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSubject_SubscriberSeesTriggeringValue(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)

	var mismatches int
	subject.Subscribe(func(v int) {
		if subject.Value() != v {
			mismatches++
		}
	})

	for i := 1; i <= 50; i++ {
		subject.Next(i)
	}
	assert.Zero(t, mismatches)
}

func TestSubject_SameValueIsRepublished(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject("admin")

	calls := 0
	subject.Subscribe(func(string) { calls++ })
	subject.Next("admin")
	subject.Next("admin")

	assert.Equal(t, 3, calls, "replay plus two emissions")
}

func TestSubject_Unsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("stops delivery", func(t *testing.T) {
		subject := broadcast.NewSubject(0)

		calls := 0
		sub := subject.Subscribe(func(int) { calls++ })
		require.True(t, sub.Active())
		require.NotEmpty(t, sub.ID())

		sub.Unsubscribe()
		sub.Unsubscribe()
		subject.Next(1)

		assert.Equal(t, 1, calls)
		assert.False(t, sub.Active())
		assert.Zero(t, subject.Len())
	})

	t.Run("from inside a callback", func(t *testing.T) {
		subject := broadcast.NewSubject(0)

		var sub *broadcast.Subscription
		calls := 0
		sub = subject.Subscribe(func(v int) {
			calls++
			if v == 1 {
				sub.Unsubscribe()
			}
		})

		subject.Next(1)
		subject.Next(2)
		assert.Equal(t, 2, calls)
	})

	t.Run("later subscriber skipped when unsubscribed mid-pass", func(t *testing.T) {
		subject := broadcast.NewSubject(0)

		var second *broadcast.Subscription
		secondCalls := 0
		subject.Subscribe(func(v int) {
			if v == 1 {
				second.Unsubscribe()
			}
		})
		second = subject.Subscribe(func(int) { secondCalls++ })

		subject.Next(1)
		assert.Equal(t, 1, secondCalls, "only the replay was delivered")
	})

	t.Run("nil subscription", func(t *testing.T) {
		var sub *broadcast.Subscription
		assert.NotPanics(t, sub.Unsubscribe)
		assert.False(t, sub.Active())
		assert.Empty(t, sub.ID())
	})
}

func TestSubject_NilCallback(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)
	sub := subject.Subscribe(nil)
	assert.False(t, sub.Active())
	assert.Zero(t, subject.Len())
}

func TestSubject_Close(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject("admin")

	calls := 0
	sub := subject.Subscribe(func(string) { calls++ })
	subject.Close()
	subject.Close()

	subject.Next("student")
	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
	assert.Equal(t, "admin", subject.Value())

	late := subject.Subscribe(func(string) { calls++ })
	assert.False(t, late.Active())
	assert.Equal(t, 1, calls)
}

func TestSubject_Watch(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject("none")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := subject.Watch(ctx)
	subject.Next("reviewer")

	ch := w.Receive(ctx)
	for _, want := range []string{"none", "reviewer"} {
		select {
		case msg := <-ch:
			assert.Equal(t, want, msg.Data)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}

	require.NoError(t, w.Close())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestSubject_WatchClosedOnSubjectClose(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(1)
	w := subject.Watch(context.Background())
	subject.Close()

	ch := w.Receive(context.Background())
	msg, ok := <-ch
	require.True(t, ok, "seed is still buffered")
	assert.Equal(t, 1, msg.Data)
	_, ok = <-ch
	assert.False(t, ok)
}

func TestSubject_ConcurrentUse(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)

	var mu sync.Mutex
	last := -1
	subject.Subscribe(func(v int) {
		mu.Lock()
		last = v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			subject.Next(v)
		}(i)
		go func() {
			defer wg.Done()
			sub := subject.Subscribe(func(int) {})
			_ = subject.Value()
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, subject.Value(), last, "the last delivered value is the stored value")
}

func TestSubject_ReentrantNext(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)

	var log []string
	subject.Subscribe(func(v int) {
		log = append(log, fmt.Sprintf("a:%d", v))
		if v == 1 {
			subject.Next(2)
			assert.Equal(t, 2, subject.Value(), "value is stored before delivery")
		}
	})
	subject.Subscribe(func(v int) {
		log = append(log, fmt.Sprintf("b:%d", v))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		subject.Next(1)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Next called from a callback did not return")
	}

	assert.Equal(t, []string{"a:0", "b:0", "a:1", "b:1", "a:2", "b:2"}, log,
		"the nested value is delivered after the current one reached everyone")
	assert.Equal(t, 2, subject.Value())
}

func TestSubject_SubscribeFromCallback(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject("none")

	var inner []string
	var innerSub *broadcast.Subscription
	outer := subject.Subscribe(func(v string) {
		if v == "admin" && innerSub == nil {
			innerSub = subject.Subscribe(func(v string) { inner = append(inner, v) })
		}
	})
	defer outer.Unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		subject.Next("admin")
		subject.Next("student")
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Subscribe called from a callback did not return")
	}

	require.NotNil(t, innerSub)
	assert.True(t, innerSub.Active())
	assert.Equal(t, []string{"admin", "student"}, inner,
		"replay once, then only values published afterwards")
}

func TestSubject_SetAndFlush(t *testing.T) {
	t.Parallel()

	subject := broadcast.NewSubject(0)

	var got []int
	subject.Subscribe(func(v int) { got = append(got, v) })

	subject.Set(1)
	subject.Set(2)
	assert.Equal(t, 2, subject.Value())
	assert.Equal(t, []int{0}, got, "Set does not deliver")

	subject.Flush()
	assert.Equal(t, []int{0, 1, 2}, got)

	subject.Flush()
	assert.Equal(t, []int{0, 1, 2}, got, "an empty queue delivers nothing")
}
