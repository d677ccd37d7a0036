package optimizer

import (
	"fmt"
	"strings"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/codec"
)

// Preset is a named optimization profile. Built-in presets are never modified;
// overrides produce a new value.
type Preset struct {
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	MaxWidth      int           `json:"max_width"`
	MaxHeight     int           `json:"max_height"`
	Quality       int           `json:"quality"`
	Format        entity.Format `json:"format"`
	StripMetadata bool          `json:"strip_metadata"`
	Progressive   bool          `json:"progressive"`
	// JPEGForced marks targets that must stay JPEG-compatible, so alpha alone
	// does not steer AUTO towards WebP.
	JPEGForced bool `json:"jpeg_forced"`
}

var builtin = []Preset{
	{
		Name: "web-basic", Title: "Web Basic", Description: "Standard web optimization",
		MaxWidth: 1920, MaxHeight: 1080, Quality: 85, Format: entity.FormatAuto,
		StripMetadata: true, Progressive: true,
	},
	{
		Name: "web-aggressive", Title: "Web Aggressive", Description: "Maximum compression for fast loading",
		MaxWidth: 1600, MaxHeight: 900, Quality: 75, Format: entity.FormatAuto,
		StripMetadata: true, Progressive: true,
	},
	{
		Name: "social-media", Title: "Social Media", Description: "Optimized for social platforms",
		MaxWidth: 1200, MaxHeight: 1200, Quality: 80, Format: entity.FormatAuto,
		StripMetadata: true, Progressive: true,
	},
	{
		Name: "email-friendly", Title: "Email Friendly", Description: "Small files for email attachments",
		MaxWidth: 800, MaxHeight: 600, Quality: 70, Format: entity.FormatAuto,
		StripMetadata: true, Progressive: false, JPEGForced: true,
	},
	{
		Name: "high-quality", Title: "High Quality", Description: "Minimal compression, preserve quality",
		MaxWidth: 2560, MaxHeight: 1440, Quality: 95, Format: entity.FormatAuto,
		StripMetadata: false, Progressive: true,
	},
}

// Presets returns a copy of the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(builtin))
	copy(out, builtin)
	return out
}

// Lookup finds a built-in preset. Names are case-insensitive and accept
// underscores in place of dashes ("web_basic").
func Lookup(name string) (Preset, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, p := range builtin {
		if p.Name == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", entity.ErrUnknownPreset, name)
}

// Apply returns p with every non-nil override field replaced. Quality is clamped
// to [1,100] and non-positive bounds are ignored.
func Apply(p Preset, o entity.Overrides) Preset {
	if o.Quality != nil {
		p.Quality = codec.ClampQuality(*o.Quality)
	}
	if o.MaxWidth != nil && *o.MaxWidth > 0 {
		p.MaxWidth = *o.MaxWidth
	}
	if o.MaxHeight != nil && *o.MaxHeight > 0 {
		p.MaxHeight = *o.MaxHeight
	}
	if o.Format != nil && (*o.Format == entity.FormatAuto || o.Format.Concrete()) {
		p.Format = *o.Format
	}
	if o.StripMetadata != nil {
		p.StripMetadata = *o.StripMetadata
	}
	return p
}
