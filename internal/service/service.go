package service

import (
	"context"
	"io"

	"github.com/ds124wfegd/imagekit/internal/database"
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/kafka"
	"github.com/ds124wfegd/imagekit/internal/pkg/optimizer"
	"github.com/ds124wfegd/imagekit/internal/pkg/processor"
	"github.com/ds124wfegd/imagekit/internal/pkg/vector"
)

type JobService interface {
	// CreateJob stores the uploads and queues the batch for a worker.
	CreateJob(ctx context.Context, req entity.Request, uploads []processor.Source) (*entity.Job, error)
	GetJob(id string) (*entity.Job, error)
	DeleteJob(id string) error
	OpenOutput(id, filename string) (io.ReadCloser, error)
	// RunJob processes a queued job and records the outcome.
	RunJob(ctx context.Context, id string) error
}

type AnalysisService interface {
	Analyze(ctx context.Context, src processor.Source) (entity.AnalysisReport, error)
	AnalyzeBatch(ctx context.Context, sources []processor.Source) entity.BatchAnalysisReport
	PreviewPlan(src processor.Source, preset string, overrides entity.Overrides) (optimizer.Plan, error)
	Presets() []optimizer.Preset
	SVGReport(src processor.Source) entity.SVGReport
	ExportSVG(ctx context.Context, src processor.Source, target string, base int, format entity.Format) ([]entity.ExportedFile, error)
}

// ReportCache is satisfied by the redis report cache.
type ReportCache interface {
	GetReport(ctx context.Context, data []byte) (*entity.AnalysisReport, error)
	SetReport(ctx context.Context, data []byte, report entity.AnalysisReport) error
}

type jobService struct {
	repo           database.JobRepository
	producer       kafka.Producer
	processor      processor.ImageProcessor
	defaultQuality int
}

func NewJobService(repo database.JobRepository, producer kafka.Producer, processor processor.ImageProcessor, defaultQuality int) JobService {
	return &jobService{
		repo:           repo,
		producer:       producer,
		processor:      processor,
		defaultQuality: defaultQuality,
	}
}

type analysisService struct {
	processor processor.ImageProcessor
	vector    vector.Toolkit
	cache     ReportCache
}

// NewAnalysisService builds the synchronous analysis API. cache may be nil.
func NewAnalysisService(processor processor.ImageProcessor, vector vector.Toolkit, cache ReportCache) AnalysisService {
	return &analysisService{processor: processor, vector: vector, cache: cache}
}
