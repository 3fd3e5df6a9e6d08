package main

import (
	"context"
	"sync"
)

// Lazy holds a single value computed on the first successful Get.
// Failed computations are not stored, the next Get runs the producer again.
type Lazy[T any] struct {
	mu      sync.Mutex
	produce func(ctx context.Context) (T, error)
	value   T
	done    bool
}

func NewLazy[T any](produce func(ctx context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{produce: produce}
}

func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.value, nil
	}
	value, err := l.produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.value, l.done = value, true
	return l.value, nil
}

// Peek returns the stored value without computing it.
func (l *Lazy[T]) Peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.done
}

// Reset drops the stored value and returns it, so the caller can release it.
func (l *Lazy[T]) Reset() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	value, done := l.value, l.done
	var zero T
	l.value, l.done = zero, false
	return value, done
}
