package optimizer

import "github.com/ds124wfegd/imagekit/internal/entity"

// AutoInput is everything the AUTO format decision depends on.
type AutoInput struct {
	HasAlpha   bool
	JPEGForced bool
	Content    entity.ContentType
}

// FormatRule is one row of the AUTO decision table.
type FormatRule struct {
	Name   string
	Match  func(AutoInput) bool
	Format entity.Format
}

// AutoRules is evaluated top to bottom, the first match wins. The choice is a
// best-effort heuristic, not a guarantee of the smallest file.
var AutoRules = []FormatRule{
	{
		Name:   "alpha-needs-webp",
		Match:  func(in AutoInput) bool { return in.HasAlpha && !in.JPEGForced },
		Format: entity.FormatWEBP,
	},
	{
		Name:   "opaque-photo-jpeg",
		Match:  func(in AutoInput) bool { return in.Content == entity.ContentPhoto && !in.HasAlpha },
		Format: entity.FormatJPEG,
	},
	{
		Name:   "graphic-png",
		Match:  func(in AutoInput) bool { return in.Content == entity.ContentGraphic },
		Format: entity.FormatPNG,
	},
	{
		Name:   "default-webp",
		Match:  func(AutoInput) bool { return true },
		Format: entity.FormatWEBP,
	},
}

func SelectFormat(in AutoInput) FormatRule {
	for _, r := range AutoRules {
		if r.Match(in) {
			return r
		}
	}
	return AutoRules[len(AutoRules)-1]
}
