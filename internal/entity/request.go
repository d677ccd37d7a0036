package entity

import "fmt"

type JobKind string

const (
	KindConvert    JobKind = "convert"
	KindResponsive JobKind = "responsive"
	KindThumbnail  JobKind = "thumbnail"
	KindFavicon    JobKind = "favicon"
	KindOptimize   JobKind = "optimize"
	KindCompare    JobKind = "compare" // every output format once, for size comparison
)

// Overrides replace preset fields one by one; nil fields keep the preset value.
type Overrides struct {
	Quality       *int    `json:"quality,omitempty"`
	MaxWidth      *int    `json:"max_width,omitempty"`
	MaxHeight     *int    `json:"max_height,omitempty"`
	Format        *Format `json:"format,omitempty"`
	StripMetadata *bool   `json:"strip_metadata,omitempty"`
}

// Request is the declarative description of what to produce for every image of a batch.
type Request struct {
	Kind     JobKind `json:"kind"`
	Format   Format  `json:"format,omitempty"`
	Quality  int     `json:"quality,omitempty"`
	Lossless bool    `json:"lossless,omitempty"`

	// Sizes selects catalog entries by name for responsive/thumbnail/favicon jobs.
	Sizes      []string `json:"sizes,omitempty"`
	Anchor     Anchor   `json:"anchor,omitempty"`
	Background string   `json:"background,omitempty"`

	Preset    string    `json:"preset,omitempty"`
	Overrides Overrides `json:"overrides,omitempty"`
}

// Validate rejects requests that are invalid for every image of a batch.
// Preset names are checked by the optimizer.
func (r Request) Validate() error {
	switch r.Kind {
	case KindConvert, KindResponsive, KindThumbnail:
		if !r.Format.Concrete() {
			return fmt.Errorf("%w: format %q for %s", ErrUnsupportedFormat, r.Format, r.Kind)
		}
		if !r.Lossless && r.Format != FormatPNG {
			if err := ValidateQuality(r.Quality); err != nil {
				return err
			}
		}
		if r.Kind == KindThumbnail {
			if _, err := ParseAnchor(string(r.Anchor)); err != nil {
				return err
			}
		}
	case KindCompare:
		if !r.Lossless {
			if err := ValidateQuality(r.Quality); err != nil {
				return err
			}
		}
	case KindFavicon:
	case KindOptimize:
		if r.Overrides.Format != nil && *r.Overrides.Format != FormatAuto && !r.Overrides.Format.Concrete() {
			return fmt.Errorf("%w: format %q", ErrUnsupportedFormat, *r.Overrides.Format)
		}
		for name, v := range map[string]*int{"max_width": r.Overrides.MaxWidth, "max_height": r.Overrides.MaxHeight} {
			if v != nil && *v < 1 {
				return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParameter, name, *v)
			}
		}
	default:
		return fmt.Errorf("%w: job kind %q", ErrInvalidParameter, r.Kind)
	}
	return nil
}

func ValidateQuality(q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("%w: quality must be within [1,100], got %d", ErrInvalidParameter, q)
	}
	return nil
}
