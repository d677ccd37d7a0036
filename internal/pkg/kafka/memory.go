package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("queue closed")

// MemoryQueue is an in-process Producer and Consumer used when no broker is
// reachable. Messages are lost on restart.
type MemoryQueue struct {
	messages chan []byte
	once     sync.Once
	done     chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{messages: make(chan []byte, size), done: make(chan struct{})}
}

func (q *MemoryQueue) SendMessage(ctx context.Context, _ string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.messages <- data:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Run(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.done:
			return nil
		case data := <-q.messages:
			dispatch(ctx, data, handle)
		}
	}
}

func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.done) })
	return nil
}
