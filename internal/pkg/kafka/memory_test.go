package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueDelivers(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.SendMessage(ctx, "job-1", entity.ProcessingTask{JobID: "job-1"}))
	require.NoError(t, q.SendMessage(ctx, "raw", "not a task object"))
	require.NoError(t, q.SendMessage(ctx, "job-2", entity.ProcessingTask{JobID: "job-2"}))

	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- q.Run(ctx, func(_ context.Context, task entity.ProcessingTask) error {
			got <- task.JobID
			if task.JobID == "job-1" {
				return errors.New("boom")
			}
			return nil
		})
	}()

	// ошибка обработчика не останавливает очередь, битое сообщение пропускается
	for _, want := range []string{"job-1", "job-2"} {
		select {
		case id := <-got:
			assert.Equal(t, want, id)
		case <-time.After(2 * time.Second):
			t.Fatalf("task %s not delivered", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestMemoryQueueClosed(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	err := q.SendMessage(context.Background(), "k", entity.ProcessingTask{JobID: "x"})
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.NoError(t, q.Run(context.Background(), func(context.Context, entity.ProcessingTask) error { return nil }))
}
