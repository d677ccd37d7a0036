package worker

import (
	"context"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/kafka"
	"github.com/ds124wfegd/imagekit/internal/service"
	"github.com/sirupsen/logrus"
)

// JobWorker pulls queued jobs and runs them one at a time. Parallelism lives
// inside a batch, not across jobs.
type JobWorker struct {
	consumer kafka.Consumer
	jobs     service.JobService
}

func NewJobWorker(consumer kafka.Consumer, jobs service.JobService) *JobWorker {
	return &JobWorker{consumer: consumer, jobs: jobs}
}

// Start blocks until ctx is cancelled or the consumer fails.
func (w *JobWorker) Start(ctx context.Context) error {
	logrus.Info("Job worker started")
	defer logrus.Info("Job worker stopped")

	return w.consumer.Run(ctx, w.handle)
}

func (w *JobWorker) handle(ctx context.Context, task entity.ProcessingTask) error {
	// Проверяем, не был ли контекст отменен до начала задачи
	if ctx.Err() != nil {
		return ctx.Err()
	}

	log := logrus.WithField("job_id", task.JobID)
	log.Info("Processing job")

	if err := w.jobs.RunJob(ctx, task.JobID); err != nil {
		return err
	}

	log.Info("Job processed")
	return nil
}
