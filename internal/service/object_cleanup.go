package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/pkg/jobs"
)

// JobDeleteObject removes a stored object after its database row is gone.
const JobDeleteObject = "storage.delete"

// ObjectDeletion is the payload of a JobDeleteObject job.
type ObjectDeletion struct {
	Key string
}

type jobEnqueuer interface {
	Enqueue(jobType string, payload interface{}) (string, error)
}

type objectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// NewObjectCleanupHandler returns the queue handler for JobDeleteObject.
func NewObjectCleanupHandler(store objectDeleter, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(ObjectDeletion)
		if !ok {
			logger.Error("unexpected payload for object cleanup", zap.String("job_id", job.ID), zap.Any("payload", job.Payload))
			return nil
		}
		if err := store.Delete(ctx, payload.Key); err != nil {
			return fmt.Errorf("delete object %s: %w", payload.Key, err)
		}
		logger.Debug("stored object deleted", zap.String("key", payload.Key), zap.Int("attempt", job.Attempt))
		return nil
	}
}

// scheduleObjectDeletion enqueues cleanup for key. Failures are logged, never returned.
func scheduleObjectDeletion(queue jobEnqueuer, key *string, logger *zap.Logger) {
	if queue == nil || key == nil || *key == "" {
		return
	}
	if _, err := queue.Enqueue(JobDeleteObject, ObjectDeletion{Key: *key}); err != nil {
		logger.Warn("failed to schedule stored object deletion", zap.String("key", *key), zap.Error(err))
	}
}
