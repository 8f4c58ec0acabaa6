package emitter

import "sync"

// Feed delivers published values to subscribers in registration order.
//
// A Feed is safe for concurrent use. Subscribers registered during a
// publish do not receive the value being published; subscribers cancelled
// during a publish are skipped if their callback has not yet run.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   []*Subscription[T]
	nextID uint64
}

// Subscription is the stable handle returned by Subscribe. Cancelling by
// handle removes exactly the listener that was registered, regardless of
// how many subscribers share the same callback.
type Subscription[T any] struct {
	feed   *Feed[T]
	id     uint64
	fn     func(T)
	once   bool
	active bool
}

// New creates an empty feed.
func New[T any]() *Feed[T] {
	return &Feed[T]{}
}

// Subscribe registers fn to run on every published value.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription[T] {
	return f.subscribe(fn, false)
}

// SubscribeOnce registers fn to run on the next published value only.
func (f *Feed[T]) SubscribeOnce(fn func(T)) *Subscription[T] {
	return f.subscribe(fn, true)
}

func (f *Feed[T]) subscribe(fn func(T), once bool) *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	s := &Subscription[T]{
		feed:   f,
		id:     f.nextID,
		fn:     fn,
		once:   once,
		active: true,
	}
	f.subs = append(f.subs, s)
	return s
}

// Cancel removes the subscription from its feed. It returns false if the
// subscription was already cancelled or already consumed by a once
// delivery. Safe to call from inside a callback.
func (s *Subscription[T]) Cancel() bool {
	if s == nil || s.feed == nil {
		return false
	}

	f := s.feed
	f.mu.Lock()
	defer f.mu.Unlock()

	if !s.active {
		return false
	}
	s.active = false
	f.remove(s.id)
	return true
}

// remove drops the subscription with the given id. Caller holds f.mu.
func (f *Feed[T]) remove(id uint64) {
	for i, sub := range f.subs {
		if sub.id == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers v to all current subscribers in registration order.
// Once-subscriptions are consumed before their callback runs, so a
// callback that publishes recursively cannot re-trigger itself.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	pending := make([]*Subscription[T], len(f.subs))
	copy(pending, f.subs)
	f.mu.Unlock()

	for _, s := range pending {
		f.mu.Lock()
		if !s.active {
			f.mu.Unlock()
			continue
		}
		if s.once {
			s.active = false
			f.remove(s.id)
		}
		f.mu.Unlock()

		s.fn(v)
	}
}

// Len returns the number of active subscriptions.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Clear cancels all subscriptions.
func (f *Feed[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.subs {
		s.active = false
	}
	f.subs = nil
}
