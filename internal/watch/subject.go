// Package watch provides a small push-based observable used for every
// continuously updating value in the agent.
package watch

import (
	"context"
	"sync"
)

// Subject holds the latest value and pushes every new value to its
// subscribers. Delivery is latest-wins: a subscriber that has not consumed
// the previous value receives the newer one instead. Values are shared, so
// publishers must not mutate a value after passing it to Set.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[chan T]struct{}
	closed bool
	done   chan struct{}
}

func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[chan T]struct{}),
		done:  make(chan struct{}),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and publishes it to every live subscriber.
func (s *Subject[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for ch := range s.subs {
		offer(ch, v)
	}
}

// Update applies fn to the current value under the subject's lock and
// publishes the result.
func (s *Subject[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = fn(s.value)
	for ch := range s.subs {
		offer(ch, s.value)
	}
}

// offer must be called with s.mu held; only Set/Update write to ch so the
// buffer has room once the pending value is dropped.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel that receives the current value immediately
// and every later value until ctx is done or the subject is closed, at which
// point the channel is closed.
func (s *Subject[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	ch <- s.value
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(ch)
		case <-s.done:
		}
	}()
	return ch
}

func (s *Subject[T]) unsubscribe(ch chan T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close ends every subscription. Later Set calls are ignored.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
	}
	s.subs = map[chan T]struct{}{}
	close(s.done)
}
