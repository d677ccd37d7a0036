// Package optimizer resolves presets and overrides into an effective plan for
// one image, including the AUTO output format choice.
package optimizer

import (
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/ds124wfegd/imagekit/internal/pkg/sizing"
)

// ContentClassifier guesses what an image depicts. The analyzer implements it.
type ContentClassifier interface {
	ContentType(h *raster.Handle) entity.ContentType
}

// Plan is the fully resolved configuration for one image. It has no AUTO fields.
type Plan struct {
	Preset        string             `json:"preset"`
	Format        entity.Format      `json:"format"`
	AutoSelected  bool               `json:"auto_selected"`
	Rule          string             `json:"rule,omitempty"`
	ContentType   entity.ContentType `json:"content_type,omitempty"`
	Quality       int                `json:"quality"`
	MaxWidth      int                `json:"max_width"`
	MaxHeight     int                `json:"max_height"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	Resized       bool               `json:"resized"`
	StripMetadata bool               `json:"strip_metadata"`
	Progressive   bool               `json:"progressive"`
}

// BuildPlan resolves p for h. Format and resize are decided per image, so a
// batch sharing one preset still gets per-image plans.
func BuildPlan(h *raster.Handle, p Preset, classifier ContentClassifier) Plan {
	plan := Plan{
		Preset:        p.Name,
		Format:        p.Format,
		Quality:       p.Quality,
		MaxWidth:      p.MaxWidth,
		MaxHeight:     p.MaxHeight,
		StripMetadata: p.StripMetadata,
		Progressive:   p.Progressive,
	}

	plan.Width, plan.Height, plan.Resized = h.Width(), h.Height(), false
	if p.MaxWidth > 0 && p.MaxHeight > 0 {
		plan.Width, plan.Height, plan.Resized = sizing.FitWithin(h.Width(), h.Height(), p.MaxWidth, p.MaxHeight)
	}

	if !p.Format.Concrete() {
		in := AutoInput{HasAlpha: h.HasAlpha(), JPEGForced: p.JPEGForced, Content: entity.ContentMixed}
		// alpha decides before any analysis is needed
		if classifier != nil && (!in.HasAlpha || in.JPEGForced) {
			in.Content = classifier.ContentType(h)
			plan.ContentType = in.Content
		}
		rule := SelectFormat(in)
		plan.Format = rule.Format
		plan.Rule = rule.Name
		plan.AutoSelected = true
	}
	return plan
}
