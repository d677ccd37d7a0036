package analyzer

import (
	"fmt"
	"sort"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

var severityRank = map[entity.Severity]int{
	entity.SeverityHigh:   0,
	entity.SeverityMedium: 1,
	entity.SeverityLow:    2,
}

// Summarize folds per-image reports into batch counts, averages and a
// deduplicated suggestion list ranked by frequency. An empty batch yields a
// report with Empty set and zero counts.
func (a *analyzer) Summarize(reports []entity.AnalysisReport, failures map[string]string) entity.BatchAnalysisReport {
	out := entity.BatchAnalysisReport{
		TotalImages:  len(reports) + len(failures),
		Analyzed:     len(reports),
		Failed:       len(failures),
		Failures:     failures,
		ContentTypes: map[entity.ContentType]int{},
		BestFormats:  map[entity.Format]int{},
		Suggestions:  []entity.AggregateSuggestion{},
		Insights:     []string{},
		Reports:      reports,
	}
	if out.TotalImages == 0 {
		out.Empty = true
		return out
	}

	type key struct{ category, message string }
	merged := make(map[key]*entity.AggregateSuggestion)

	var megapixels, brightness, edges float64
	var large, photos, graphics int
	for _, r := range reports {
		megapixels += r.Basic.Megapixels
		brightness += r.Color.Brightness
		edges += r.Complexity.EdgeDensity
		if r.Basic.HasAlpha {
			out.AlphaImages++
		}
		if r.Basic.TotalPixels > a.cfg.MediumImagePixels {
			large++
		}
		switch r.Complexity.ContentType {
		case entity.ContentPhoto:
			photos++
		case entity.ContentGraphic:
			graphics++
		}
		out.ContentTypes[r.Complexity.ContentType]++
		out.BestFormats[r.BestFormat]++
		if r.Suggestions.OptimizationPotential == "high" {
			out.HighPotential++
		}

		for _, s := range r.Suggestions.Items {
			k := key{s.Category, s.Message}
			if agg, ok := merged[k]; ok {
				agg.Count++
				continue
			}
			merged[k] = &entity.AggregateSuggestion{Severity: s.Severity, Category: s.Category, Message: s.Message, Count: 1}
		}
	}

	out.TotalMegapixel = round2(megapixels)
	out.AvgMegapixels = round2(mean(megapixels, len(reports)))
	out.AvgBrightness = round1(mean(brightness, len(reports)))
	out.AvgEdgeDensity = round2(mean(edges, len(reports)))

	for _, agg := range merged {
		out.Suggestions = append(out.Suggestions, *agg)
	}
	sort.Slice(out.Suggestions, func(i, j int) bool {
		si, sj := out.Suggestions[i], out.Suggestions[j]
		if si.Count != sj.Count {
			return si.Count > sj.Count
		}
		if severityRank[si.Severity] != severityRank[sj.Severity] {
			return severityRank[si.Severity] < severityRank[sj.Severity]
		}
		return si.Message < sj.Message
	})

	n := len(reports)
	if n == 0 {
		return out
	}
	if float64(large) > float64(n)*0.5 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d images are larger than recommended for web use, consider batch resizing", large))
	}
	if out.AlphaImages > 0 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d images have transparency, use WebP or PNG to preserve alpha", out.AlphaImages))
	}
	if float64(photos) > float64(n)*0.7 {
		out.Insights = append(out.Insights, "Most images appear to be photographs, WebP or JPEG at quality 80-85% recommended")
	}
	if float64(graphics) > float64(n)*0.5 {
		out.Insights = append(out.Insights, "Many images appear to be graphics or logos, PNG or lossless WebP keeps edges crisp")
	}
	return out
}
