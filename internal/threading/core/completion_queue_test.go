package core

import (
	"sync"
	"testing"
)

func TestCompletionQueueDrainsInOrder(t *testing.T) {
	q := NewCompletionQueue[int]()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		q.Push(func(frame int) { order = append(order, i*10+frame) })
	}

	if q.Len() != 3 {
		t.Fatalf("Expected 3 queued completions, got %d", q.Len())
	}
	if n := q.Drain(1); n != 3 {
		t.Errorf("Expected 3 completions to run, got %d", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 11 || order[2] != 21 {
		t.Errorf("Unexpected completion order %v", order)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue after drain, got %d", q.Len())
	}
}

func TestCompletionQueuePushDuringDrainWaits(t *testing.T) {
	q := NewCompletionQueue[struct{}]()

	ranSecond := false
	q.Push(func(struct{}) {
		q.Push(func(struct{}) { ranSecond = true })
	})

	q.Drain(struct{}{})
	if ranSecond {
		t.Fatal("Completion pushed during drain should wait for the next drain")
	}
	q.Drain(struct{}{})
	if !ranSecond {
		t.Fatal("Expected second completion to run on the next drain")
	}
}

func TestCompletionQueueFromWorkers(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	q := NewCompletionQueue[*sync.WaitGroup]()
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			q.Push(func(wg *sync.WaitGroup) { wg.Done() })
		})
	}
	pool.Wait()

	var wg sync.WaitGroup
	wg.Add(100)
	if n := q.Drain(&wg); n != 100 {
		t.Fatalf("Expected 100 completions, got %d", n)
	}
	wg.Wait()
}
