package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

// Weights of the format score components. They sum to 1.
const (
	weightAlpha       = 0.40
	weightContent     = 0.35
	weightCompression = 0.25
)

// contentFit rates how well a format suits each content type, 0..100.
var contentFit = map[entity.Format]map[entity.ContentType]float64{
	entity.FormatWEBP: {entity.ContentPhoto: 90, entity.ContentGraphic: 85, entity.ContentMixed: 90},
	entity.FormatJPEG: {entity.ContentPhoto: 95, entity.ContentGraphic: 30, entity.ContentMixed: 60},
	entity.FormatPNG:  {entity.ContentPhoto: 40, entity.ContentGraphic: 100, entity.ContentMixed: 60},
	entity.FormatAVIF: {entity.ContentPhoto: 100, entity.ContentGraphic: 70, entity.ContentMixed: 85},
}

// bytesPerPixel is the expected encoded size per pixel at default quality.
var bytesPerPixel = map[entity.Format]map[entity.ContentType]float64{
	entity.FormatJPEG: {entity.ContentPhoto: 0.50, entity.ContentGraphic: 0.35, entity.ContentMixed: 0.45},
	entity.FormatWEBP: {entity.ContentPhoto: 0.35, entity.ContentGraphic: 0.15, entity.ContentMixed: 0.30},
	entity.FormatPNG:  {entity.ContentPhoto: 1.20, entity.ContentGraphic: 0.20, entity.ContentMixed: 0.80},
	entity.FormatAVIF: {entity.ContentPhoto: 0.25, entity.ContentGraphic: 0.12, entity.ContentMixed: 0.22},
}

// Connection tiers in kilobytes per second.
const (
	slow3GKBps    = 50
	fourGKBps     = 1500
	broadbandKBps = 5000
)

type component struct {
	value  float64
	reason string
}

func alphaComponent(format entity.Format, hasAlpha bool) component {
	switch {
	case hasAlpha && format == entity.FormatJPEG:
		return component{value: 0}
	case hasAlpha:
		return component{value: 100 * weightAlpha, reason: "keeps the alpha channel"}
	case format == entity.FormatPNG:
		return component{value: 90 * weightAlpha, reason: "opaque image, alpha support unused"}
	}
	return component{value: 100 * weightAlpha, reason: "no transparency to preserve"}
}

func contentComponent(format entity.Format, content entity.ContentType) component {
	fit := contentFit[format][content]
	level := "poor"
	switch {
	case fit >= 85:
		level = "excellent"
	case fit >= 60:
		level = "good"
	}
	return component{
		value:  fit * weightContent,
		reason: fmt.Sprintf("%s fit for %s content", level, strings.ToLower(string(content))),
	}
}

func compressionComponent(format entity.Format, content entity.ContentType) component {
	best := math.MaxFloat64
	for _, f := range entity.OutputFormats {
		best = math.Min(best, bytesPerPixel[f][content])
	}
	bpp := bytesPerPixel[format][content]
	return component{
		value:  100 * best / bpp * weightCompression,
		reason: fmt.Sprintf("about %.2f bytes per pixel", bpp),
	}
}

// formatScores rates every output format and sorts them best first.
// Equal scores keep entity.OutputFormats order.
func formatScores(hasAlpha bool, content entity.ContentType) []entity.FormatScore {
	scores := make([]entity.FormatScore, 0, len(entity.OutputFormats))
	for _, f := range entity.OutputFormats {
		parts := []component{
			alphaComponent(f, hasAlpha),
			contentComponent(f, content),
			compressionComponent(f, content),
		}
		var total float64
		for _, p := range parts {
			total += p.value
		}
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].value > parts[j].value })

		reasons := make([]string, 0, len(parts))
		for _, p := range parts {
			if p.value > 0 && p.reason != "" {
				reasons = append(reasons, p.reason)
			}
		}
		if hasAlpha && f == entity.FormatJPEG {
			reasons = append(reasons, "drops transparency")
		}

		scores = append(scores, entity.FormatScore{Format: f, Score: int(math.Round(total)), Reasons: reasons})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

func performance(pixels int, content entity.ContentType) entity.PerformanceEstimate {
	est := entity.PerformanceEstimate{
		PerformanceScore: round1(math.Min(100, math.Max(0, 100-float64(pixels)/50000))),
	}
	for _, f := range entity.OutputFormats {
		size := int64(math.Round(float64(pixels) * bytesPerPixel[f][content]))
		kb := float64(size) / 1024
		est.Estimates = append(est.Estimates, entity.FormatEstimate{
			Format:         f,
			ProjectedBytes: size,
			LoadSeconds: entity.LoadTimes{
				Slow3G:    round2(kb / slow3GKBps),
				FourG:     round2(kb / fourGKBps),
				Broadband: round2(kb / broadbandKBps),
			},
		})
	}
	return est
}
