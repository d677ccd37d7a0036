// Package analyzer inspects decoded images and reports color, complexity,
// format fit and size estimates. Metrics are computed on bounded samples and
// are approximate.
package analyzer

import (
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
)

type Analyzer interface {
	Analyze(h *raster.Handle) entity.AnalysisReport
	// ContentType runs only the metrics needed to guess the content type.
	ContentType(h *raster.Handle) entity.ContentType
	Summarize(reports []entity.AnalysisReport, failures map[string]string) entity.BatchAnalysisReport
}

type analyzer struct {
	cfg Thresholds
}

func NewAnalyzer(cfg Thresholds) Analyzer {
	return &analyzer{cfg: cfg.withDefaults()}
}

func (a *analyzer) Analyze(h *raster.Handle) entity.AnalysisReport {
	basic := basicInfo(h)
	color := a.colorMetrics(h.Image())
	complexity := a.complexityMetrics(h.Image(), color)
	formats := formatScores(basic.HasAlpha, complexity.ContentType)

	return entity.AnalysisReport{
		Basic:       basic,
		Color:       color,
		Complexity:  complexity,
		Formats:     formats,
		BestFormat:  formats[0].Format,
		Suggestions: a.suggestions(basic, color, complexity),
		Performance: performance(basic.TotalPixels, complexity.ContentType),
	}
}

func (a *analyzer) ContentType(h *raster.Handle) entity.ContentType {
	color := a.colorMetrics(h.Image())
	return a.complexityMetrics(h.Image(), color).ContentType
}

func basicInfo(h *raster.Handle) entity.BasicInfo {
	w, ht := h.Width(), h.Height()
	info := entity.BasicInfo{
		Width:        w,
		Height:       ht,
		TotalPixels:  w * ht,
		Megapixels:   round2(float64(w*ht) / 1_000_000),
		Mode:         h.Mode(),
		HasAlpha:     h.HasAlpha(),
		SourceFormat: h.SourceFormat(),
		SourceBytes:  h.SourceBytes(),
		HasMetadata:  h.HasMetadata(),
	}
	if ht > 0 {
		ratio := float64(w) / float64(ht)
		info.AspectRatio = round2(ratio)
		switch {
		case w == ht:
			info.Orientation = "square"
		case ratio > 1.5:
			info.Orientation = "landscape"
		case ratio < 0.67:
			info.Orientation = "portrait"
		default:
			info.Orientation = "standard"
		}
	}
	return info
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
