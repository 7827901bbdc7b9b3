package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("seeded subscriber gets seed first", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		defer b.Close()

		sub := b.subscribe(context.Background(), &Message[string]{Data: "admin"})
		require.NoError(t, b.Broadcast(context.Background(), Message[string]{Data: "student"}))

		assert.Equal(t, "admin", (<-sub.Receive(context.Background())).Data)
		assert.Equal(t, "student", (<-sub.Receive(context.Background())).Data)
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("every subscriber receives the message", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		defer b.Close()

		ctx := context.Background()
		subs := []Subscriber[string]{b.Subscribe(ctx), b.Subscribe(ctx), b.Subscribe(ctx)}
		require.NoError(t, b.Broadcast(ctx, Message[string]{Data: "reviewer"}))

		for i, sub := range subs {
			select {
			case msg := <-sub.Receive(ctx):
				assert.Equal(t, "reviewer", msg.Data, "subscriber %d", i)
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("subscriber %d timeout", i)
			}
		}
	})

	t.Run("broadcast after close is a no-op", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		require.NoError(t, b.Close())
		assert.NoError(t, b.Broadcast(context.Background(), Message[string]{Data: "admin"}))
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		for i := range 10 {
			require.NoError(t, b.Broadcast(ctx, Message[int]{Data: i}))
		}

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)

		count := 0
		for range sub.Receive(ctx) {
			count++
		}
		assert.LessOrEqual(t, count, 1)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Run("close closes all subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)

		ctx := context.Background()
		subs := []Subscriber[string]{b.Subscribe(ctx), b.Subscribe(ctx)}
		require.NoError(t, b.Close())

		for i, sub := range subs {
			_, ok := <-sub.Receive(ctx)
			assert.False(t, ok, "subscriber %d channel should be closed", i)
		}
	})

	t.Run("close does not wait for live contexts", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		b.Subscribe(ctx)

		done := make(chan struct{})
		go func() {
			_ = b.Close()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("close blocked on an uncancelled subscriber context")
		}
	})

	t.Run("double close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	b := NewMemoryBroadcaster[string](4)
	defer b.Close()

	var wg sync.WaitGroup
	const numGoroutines = 50

	wg.Add(numGoroutines)
	for range numGoroutines {
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			sub := b.Subscribe(ctx)
			<-sub.Receive(ctx)
		}()
	}

	go func() {
		for range 100 {
			_ = b.Broadcast(context.Background(), Message[string]{Data: "admin"})
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
}

func BenchmarkMemoryBroadcaster_Broadcast(b *testing.B) {
	broadcaster := NewMemoryBroadcaster[string](100)
	defer broadcaster.Close()

	ctx := context.Background()
	for range 10 {
		sub := broadcaster.Subscribe(ctx)
		go func(s Subscriber[string]) {
			for range s.Receive(ctx) {
			}
		}(sub)
	}

	msg := Message[string]{Data: "reviewer"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = broadcaster.Broadcast(ctx, msg)
		}
	})
}
