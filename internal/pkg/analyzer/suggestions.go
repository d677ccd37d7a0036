package analyzer

import "github.com/ds124wfegd/imagekit/internal/entity"

// Suggestion messages carry no per-image numbers so batch reports can merge them.
const (
	msgResizeLarge   = "Image is very large for web use, resize to at most 2560x1440"
	msgResizeMedium  = "Image could be smaller for faster loading, 1920x1080 fits most web uses"
	msgLowerQuality  = "Low detail image, quality 70-80% should be sufficient"
	msgHigherQuality = "High detail image, use quality 85-95% to preserve details"
	msgPNGPalette    = "Limited color palette, PNG may compress better than JPEG"
	msgTransparency  = "Image has transparency, use WebP or PNG since JPEG drops the alpha channel"
	msgResponsive    = "Large image, generate responsive sizes for different screens"
	msgStripMetadata = "Image carries EXIF metadata, strip it to save bytes and protect privacy"
)

func (a *analyzer) suggestions(basic entity.BasicInfo, color entity.ColorMetrics, complexity entity.ComplexityMetrics) entity.SuggestionSummary {
	var items []entity.Suggestion
	add := func(sev entity.Severity, category, msg string) {
		items = append(items, entity.Suggestion{Severity: sev, Category: category, Message: msg})
	}

	switch {
	case basic.TotalPixels > a.cfg.LargeImagePixels:
		add(entity.SeverityHigh, "resize", msgResizeLarge)
	case basic.TotalPixels > a.cfg.MediumImagePixels:
		add(entity.SeverityMedium, "resize", msgResizeMedium)
	}

	switch complexity.Texture {
	case "smooth":
		add(entity.SeverityMedium, "quality", msgLowerQuality)
	case "detailed":
		add(entity.SeverityLow, "quality", msgHigherQuality)
	}

	if color.ColorComplexity == "low" {
		add(entity.SeverityMedium, "format", msgPNGPalette)
	}
	if basic.HasAlpha {
		add(entity.SeverityHigh, "format", msgTransparency)
	}
	if basic.TotalPixels > a.cfg.ResponsiveImagePixels {
		add(entity.SeverityHigh, "performance", msgResponsive)
	}
	if basic.HasMetadata {
		add(entity.SeverityLow, "metadata", msgStripMetadata)
	}

	summary := entity.SuggestionSummary{Items: items, OptimizationPotential: "low"}
	for _, s := range items {
		if s.Severity == entity.SeverityHigh {
			summary.HighPriority++
		}
	}
	switch {
	case len(items) >= 3:
		summary.OptimizationPotential = "high"
	case len(items) >= 1:
		summary.OptimizationPotential = "medium"
	}
	return summary
}
