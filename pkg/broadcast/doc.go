// Package broadcast provides the "current value + notify" primitive that the role
// store publishes through, plus a small channel fan-out for asynchronous readers.
//
// Subject keeps the latest value and replays it to every new subscriber before
// that subscriber sees any later emission. Delivery follows subscription order
// and only one delivery pass runs at a time.
//
// Basic usage:
//
//	subject := broadcast.NewSubject(0)
//	sub := subject.Subscribe(func(v int) {
//		fmt.Println("value:", v) // prints 0 immediately, then 1
//	})
//	defer sub.Unsubscribe()
//
//	subject.Next(1)
//
// Readers that prefer channels use Watch. The returned subscriber is seeded with
// the current value and is released when its context ends:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	for msg := range subject.Watch(ctx).Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
//
// Channel subscribers are fed by MemoryBroadcaster, which never blocks the
// publisher: a subscriber whose buffer is full is dropped.
//
// Callbacks run with no lock held and may call any method of the subject. A
// value passed to Next from inside a callback is queued: the running pass
// finishes the current value for every subscriber, then delivers the queued
// one. Value already reports the queued value.
package broadcast
