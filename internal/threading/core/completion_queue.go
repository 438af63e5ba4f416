package core

import "sync"

// CompletionQueue collects callbacks produced by background jobs so they can
// be applied on the frame loop. T is the per-drain argument, typically the
// current frame.
type CompletionQueue[T any] struct {
	mutex   sync.Mutex
	pending []func(T)
}

func NewCompletionQueue[T any]() *CompletionQueue[T] {
	return &CompletionQueue[T]{}
}

// Push enqueues a completion. Safe for concurrent use.
func (q *CompletionQueue[T]) Push(completion func(T)) {
	q.mutex.Lock()
	q.pending = append(q.pending, completion)
	q.mutex.Unlock()
}

// Len returns the number of queued completions.
func (q *CompletionQueue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.pending)
}

// Drain runs every completion queued before the call, in push order, and
// returns how many ran. Completions pushed while draining wait for the next
// call.
func (q *CompletionQueue[T]) Drain(arg T) int {
	q.mutex.Lock()
	batch := q.pending
	q.pending = nil
	q.mutex.Unlock()

	for _, completion := range batch {
		completion(arg)
	}
	return len(batch)
}
