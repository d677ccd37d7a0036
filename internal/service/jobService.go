package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/optimizer"
	"github.com/ds124wfegd/imagekit/internal/pkg/processor"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *jobService) CreateJob(ctx context.Context, req entity.Request, uploads []processor.Source) (*entity.Job, error) {
	if len(uploads) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	// качество по умолчанию для lossy-форматов
	if req.Quality == 0 && !req.Lossless {
		req.Quality = s.defaultQuality
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Kind == entity.KindOptimize {
		if _, err := optimizer.Lookup(req.Preset); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	job := &entity.Job{
		ID:        uuid.New().String(),
		Status:    entity.StatusQueued,
		Request:   req,
		Sources:   make([]string, len(uploads)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i, up := range uploads {
		job.Sources[i] = up.Filename
		if err := s.repo.SaveSource(job.ID, i, bytes.NewReader(up.Data)); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(job); err != nil {
		return nil, err
	}

	// Отправляем в Kafka для обработки
	if err := s.producer.SendMessage(ctx, job.ID, entity.ProcessingTask{JobID: job.ID}); err != nil {
		s.finish(job, nil, err)
		return nil, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	logrus.WithFields(logrus.Fields{"job_id": job.ID, "kind": req.Kind, "images": len(uploads)}).Info("job queued")
	return job, nil
}

func (s *jobService) GetJob(id string) (*entity.Job, error) {
	return s.repo.FindByID(id)
}

func (s *jobService) DeleteJob(id string) error {
	return s.repo.Delete(id)
}

func (s *jobService) OpenOutput(id, filename string) (io.ReadCloser, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}
	return s.repo.OpenOutput(id, filename)
}

func (s *jobService) RunJob(ctx context.Context, id string) error {
	job, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if job.Status != entity.StatusQueued {
		logrus.WithFields(logrus.Fields{"job_id": id, "status": job.Status}).Warn("job already handled, skipping")
		return nil
	}

	job.Status = entity.StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(job); err != nil {
		return err
	}

	sources := make([]processor.Source, len(job.Sources))
	for i, name := range job.Sources {
		data, err := s.repo.LoadSource(id, i)
		if err != nil {
			return s.finish(job, nil, fmt.Errorf("load source %s: %w", name, err))
		}
		sources[i] = processor.Source{Filename: name, Data: data}
	}

	result, err := s.processor.ProcessBatch(ctx, sources, job.Request)
	if err != nil {
		return s.finish(job, nil, err)
	}

	// порядок ключей фиксирован, чтобы имена не менялись между запусками
	names := make([]string, 0, len(result.Images))
	for name := range result.Images {
		names = append(names, name)
	}
	sort.Strings(names)

	job.Outputs = make(map[string]string)
	for _, name := range names {
		outcome := result.Images[name]
		for i := range outcome.Results {
			r := &outcome.Results[i]
			if !r.Success {
				continue
			}
			r.Filename = freeName(job.Outputs, r.Filename)
			if err := s.repo.SaveOutput(id, r.Filename, bytes.NewReader(r.Data)); err != nil {
				return s.finish(job, result, fmt.Errorf("save output %s: %w", r.Filename, err))
			}
			job.Outputs[r.Filename] = s.repo.OutputPath(id, r.Filename)
		}
	}

	return s.finish(job, result, nil)
}

// freeName prefixes filename with the first counter that is not taken yet.
func freeName(taken map[string]string, filename string) string {
	name := filename
	for n := 1; ; n++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%d_%s", n, filename)
	}
}

// finish records the final job state. A nil cause completes the job.
func (s *jobService) finish(job *entity.Job, result *entity.BatchResult, cause error) error {
	job.Result = result
	job.UpdatedAt = time.Now().UTC()

	log := logrus.WithField("job_id", job.ID)
	switch {
	case cause != nil:
		job.Status = entity.StatusFailed
		job.Error = cause.Error()
		log.WithError(cause).Error("job failed")
	case result != nil && result.Cancelled:
		job.Status = entity.StatusFailed
		job.Error = "cancelled"
		log.Warn("job cancelled")
	default:
		job.Status = entity.StatusCompleted
		log.WithFields(logrus.Fields{
			"outputs": len(job.Outputs),
			"savings": result.SavingsBytes,
		}).Info("job completed")
	}

	if err := s.repo.Save(job); err != nil {
		return err
	}
	return cause
}
