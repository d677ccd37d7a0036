package service

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/optimizer"
	"github.com/ds124wfegd/imagekit/internal/pkg/processor"
	"github.com/ds124wfegd/imagekit/internal/pkg/sizing"
	"github.com/sirupsen/logrus"
)

// SVG export targets.
const (
	TargetDensities = "densities"
	TargetAndroid   = "android"
	TargetIOS       = "ios"
)

func (s *analysisService) Analyze(ctx context.Context, src processor.Source) (entity.AnalysisReport, error) {
	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx, src.Data)
		if err != nil {
			logrus.WithError(err).Warn("report cache read failed")
		}
		if cached != nil {
			cached.Filename = src.Filename
			return *cached, nil
		}
	}

	report, err := s.processor.Analyze(src)
	if err != nil {
		return entity.AnalysisReport{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, src.Data, report); err != nil {
			logrus.WithError(err).Warn("report cache write failed")
		}
	}
	return report, nil
}

func (s *analysisService) AnalyzeBatch(ctx context.Context, sources []processor.Source) entity.BatchAnalysisReport {
	return s.processor.AnalyzeBatch(ctx, sources)
}

func (s *analysisService) PreviewPlan(src processor.Source, preset string, overrides entity.Overrides) (optimizer.Plan, error) {
	return s.processor.PreviewPlan(src, preset, overrides)
}

func (s *analysisService) Presets() []optimizer.Preset {
	return optimizer.Presets()
}

func (s *analysisService) SVGReport(src processor.Source) entity.SVGReport {
	return s.vector.Report(src.Filename, src.Data)
}

func (s *analysisService) ExportSVG(ctx context.Context, src processor.Source, target string, base int, format entity.Format) ([]entity.ExportedFile, error) {
	if !format.Concrete() {
		return nil, fmt.Errorf("%w: export format %q", entity.ErrUnsupportedFormat, format)
	}

	var sizes []entity.Size
	switch target {
	case TargetDensities, "":
		if base < 1 {
			return nil, fmt.Errorf("%w: base size %d", entity.ErrInvalidParameter, base)
		}
		sizes = sizing.PlanDensities(base, sizing.MobileDensities)
	case TargetAndroid:
		sizes = sizing.PlanFavicons(sizing.AndroidIconCatalog)
	case TargetIOS:
		sizes = sizing.PlanIOSIcons(sizing.IOSIconBases)
	default:
		return nil, fmt.Errorf("%w: export target %q", entity.ErrInvalidParameter, target)
	}

	results := s.processor.ExportSVG(ctx, src, sizes, format)
	files := make([]entity.ExportedFile, len(results))
	for i, r := range results {
		files[i] = entity.ExportedFile{ConversionResult: r, Data: r.Data}
	}
	return files, nil
}
