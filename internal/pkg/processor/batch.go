package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/optimizer"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var errCancelled = errors.New("cancelled before processing started")

// ProcessBatch expands and processes every source with bounded parallelism.
// Only request-level problems return an error, per-image and per-output
// failures are recorded in the result.
func (p *imageProcessor) ProcessBatch(ctx context.Context, sources []Source, req entity.Request) (*entity.BatchResult, error) {
	if len(sources) == 0 {
		return nil, entity.ErrEmptyBatch
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Kind == entity.KindOptimize {
		if _, err := optimizer.Lookup(req.Preset); err != nil {
			return nil, err
		}
	}

	keys := uniqueNames(sources)
	outcomes := make([]*entity.ImageOutcome, len(sources))

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)

	for i, src := range sources {
		i, src := i, src
		// отмена проверяется только на границе изображений
		if ctx.Err() != nil {
			outcomes[i] = &entity.ImageOutcome{Filename: src.Filename, SourceBytes: int64(len(src.Data)), Error: errCancelled.Error()}
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = &entity.ImageOutcome{Filename: src.Filename, SourceBytes: int64(len(src.Data)), Error: errCancelled.Error()}
				return nil
			}
			outcomes[i] = p.processImage(ctx, src, req)
			return nil
		})
	}
	_ = g.Wait()

	result := aggregate(keys, outcomes)
	result.Cancelled = ctx.Err() != nil

	logrus.WithFields(logrus.Fields{
		"kind":      req.Kind,
		"images":    result.ImagesTotal,
		"failed":    result.ImagesFailed,
		"outputs":   result.OutputsSucceeded,
		"ratio":     result.CompressionRatio,
		"cancelled": result.Cancelled,
	}).Info("batch processed")

	return result, nil
}

func (p *imageProcessor) processImage(ctx context.Context, src Source, req entity.Request) *entity.ImageOutcome {
	outcome := &entity.ImageOutcome{Filename: src.Filename, SourceBytes: int64(len(src.Data))}

	h, err := p.engine.Decode(src.Data)
	if err != nil {
		outcome.Error = err.Error()
		logrus.WithField("image", src.Filename).WithError(err).Warn("decode failed")
		return outcome
	}
	h, err = p.engine.CorrectOrientation(h)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	specs, err := p.Expand(h, req)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Results = p.Process(ctx, h, src.Filename, specs)
	return outcome
}

func (p *imageProcessor) AnalyzeBatch(ctx context.Context, sources []Source) entity.BatchAnalysisReport {
	keys := uniqueNames(sources)
	reports := make([]*entity.AnalysisReport, len(sources))
	failures := make(map[string]string)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				failures[keys[i]] = errCancelled.Error()
				mu.Unlock()
				return nil
			}
			report, err := p.Analyze(src)
			if err != nil {
				mu.Lock()
				failures[keys[i]] = err.Error()
				mu.Unlock()
				return nil
			}
			reports[i] = &report
			return nil
		})
	}
	_ = g.Wait()

	analyzed := make([]entity.AnalysisReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			analyzed = append(analyzed, *r)
		}
	}
	return p.analyzer.Summarize(analyzed, failures)
}

// uniqueNames keys each source by filename. Repeats get the first free
// " (n)" suffix, so every source keeps its own key.
func uniqueNames(sources []Source) []string {
	keys := make([]string, len(sources))
	taken := make(map[string]bool, len(sources))
	for i, src := range sources {
		name := src.Filename
		if name == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		key := name
		for n := 2; taken[key]; n++ {
			key = fmt.Sprintf("%s (%d)", name, n)
		}
		taken[key] = true
		keys[i] = key
	}
	return keys
}

func aggregate(keys []string, outcomes []*entity.ImageOutcome) *entity.BatchResult {
	res := &entity.BatchResult{Images: make(map[string]*entity.ImageOutcome, len(outcomes))}

	for i, o := range outcomes {
		res.Images[keys[i]] = o
		res.ImagesTotal++
		res.TotalInputBytes += o.SourceBytes

		if o.Error != "" {
			res.ImagesFailed++
			continue
		}
		for _, r := range o.Results {
			if r.Success {
				res.OutputsSucceeded++
				res.TotalOutputBytes += r.Bytes
			} else {
				res.OutputsFailed++
			}
		}
	}

	res.SavingsBytes = res.TotalInputBytes - res.TotalOutputBytes
	if res.TotalInputBytes > 0 {
		res.CompressionRatio = math.Round((1-float64(res.TotalOutputBytes)/float64(res.TotalInputBytes))*1000) / 10
	}
	return res
}
