package service

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO of request ids with a single consumer
// pending counts jobs enqueued but not yet marked done
type queue struct {
	mu      sync.Mutex
	items   []int64
	pending int
	wake    chan struct{}
	idle    chan struct{} // closed while pending == 0
}

func newQueue() *queue {
	idle := make(chan struct{})
	close(idle)
	return &queue{wake: make(chan struct{}, 1), idle: idle}
}

func (q *queue) push(id int64) {
	q.mu.Lock()
	q.items = append(q.items, id)
	q.pending++
	if q.pending == 1 {
		q.idle = make(chan struct{})
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// pop blocks until an id is available or ctx ends
func (q *queue) pop(ctx context.Context) (int64, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			id := q.items[0]
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return id, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-q.wake:
		}
	}
}

func (q *queue) done() {
	q.mu.Lock()
	q.pending--
	if q.pending == 0 {
		close(q.idle)
	}
	q.mu.Unlock()
}

func (q *queue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *queue) idleCh() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.idle
}
