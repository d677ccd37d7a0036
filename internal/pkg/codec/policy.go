// Package codec holds the per-format encode rules: which parameters each
// output format is written with and how alpha is handled.
package codec

import (
	"fmt"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

const (
	// WebPMethod is the encoder effort level; 6 is the slowest, smallest setting.
	WebPMethod = 6
	// PNGCompressionLevel is the zlib level used for every PNG.
	PNGCompressionLevel = 9
	// MaxPaletteColors is the unique-color limit under which PNG output is palettized.
	MaxPaletteColors = 256
	// LosslessQuality is passed to encoders that still read a quality value in lossless mode.
	LosslessQuality = 100
)

// Capabilities reports which formats the raster engine can encode.
type Capabilities interface {
	SupportsFormat(format entity.Format) bool
}

// EncodeParams is the fully resolved encoder configuration for one output.
type EncodeParams struct {
	Format      entity.Format `json:"format"`
	Requested   entity.Format `json:"requested"`
	Substituted bool          `json:"substituted"`

	Quality  int  `json:"quality"`
	Lossless bool `json:"lossless"`

	Method           int  `json:"method,omitempty"`
	Progressive      bool `json:"progressive,omitempty"`
	Optimize         bool `json:"optimize,omitempty"`
	CompressionLevel int  `json:"compression_level,omitempty"`

	// FlattenAlpha composites transparent pixels onto white and drops the alpha channel.
	FlattenAlpha  bool `json:"flatten_alpha,omitempty"`
	PreserveAlpha bool `json:"preserve_alpha,omitempty"`
	// PaletteReduce converts to palette mode when the image has at most MaxPaletteColors colors.
	PaletteReduce bool `json:"palette_reduce,omitempty"`
}

// Resolve turns a requested format and quality into encoder parameters.
// Quality is validated only for lossy encodes; the value handed to the encoder
// is always clamped to [1,100]. AVIF falls back to WebP when the engine cannot
// write it, and the substitution is reported on the params.
func Resolve(format entity.Format, quality int, lossless, hasAlpha bool, caps Capabilities) (EncodeParams, error) {
	if !format.Concrete() {
		return EncodeParams{}, fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, format)
	}

	if !lossless && format != entity.FormatPNG {
		if err := entity.ValidateQuality(quality); err != nil {
			return EncodeParams{}, err
		}
	}

	params := EncodeParams{Requested: format, Format: format}
	if format == entity.FormatAVIF && !supports(caps, entity.FormatAVIF) {
		params.Format = entity.FormatWEBP
		params.Substituted = true
	}
	if !supports(caps, params.Format) {
		return EncodeParams{}, fmt.Errorf("%w: %s is not encodable", entity.ErrUnsupportedFormat, params.Format)
	}

	switch params.Format {
	case entity.FormatWEBP:
		params.Method = WebPMethod
		params.Lossless = lossless
		params.PreserveAlpha = hasAlpha
		params.Quality = ClampQuality(quality)
	case entity.FormatJPEG:
		params.Progressive = true
		params.Optimize = true
		params.FlattenAlpha = hasAlpha
		params.Quality = ClampQuality(quality)
		if lossless {
			params.Quality = LosslessQuality
		}
	case entity.FormatPNG:
		params.Lossless = true
		params.Optimize = true
		params.CompressionLevel = PNGCompressionLevel
		params.PaletteReduce = true
		params.PreserveAlpha = hasAlpha
	case entity.FormatAVIF:
		params.Lossless = lossless
		params.PreserveAlpha = hasAlpha
		params.Quality = ClampQuality(quality)
	}

	if params.Lossless {
		params.Quality = LosslessQuality
	}
	return params, nil
}

// ClampQuality bounds q to the encoder range [1,100].
func ClampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

func supports(caps Capabilities, format entity.Format) bool {
	if caps == nil {
		return format != entity.FormatAVIF
	}
	return caps.SupportsFormat(format)
}
