package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsHandler(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 1})
	done := make(chan string, 1)
	q.Handle("echo", func(_ context.Context, job Job) error {
		done <- job.Payload.(string)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue("echo", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-done:
		assert.Equal(t, "hello", got)
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetries(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	var attempts int32
	done := make(chan struct{})
	q.Handle("flaky", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary")
		}
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue("flaky", nil)
	require.NoError(t, err)

	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("job not retried")
	}
}

func TestQueueRejectsUnknownTypeAndStopped(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	_, err := q.Enqueue("anything", nil)
	require.Error(t, err)

	q.Handle("known", func(context.Context, Job) error { return nil })
	q.Start(context.Background())
	_, err = q.Enqueue("unknown", nil)
	require.Error(t, err)
	q.Stop()

	_, err = q.Enqueue("known", nil)
	require.Error(t, err)
}
