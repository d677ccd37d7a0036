package entity

import (
	"fmt"
	"strings"
)

// Format is an output encoding understood by the engine.
type Format string

const (
	FormatWEBP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatAVIF Format = "avif"
	// FormatAuto asks the optimization planner to pick a format from image content.
	FormatAuto Format = "auto"
)

// FormatICO is the multi-size favicon container. Only favicon jobs produce it;
// it cannot be requested as a target format.
const FormatICO Format = "ico"

// OutputFormats lists the concrete formats in the order reports present them.
var OutputFormats = []Format{FormatWEBP, FormatJPEG, FormatPNG, FormatAVIF}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FormatWEBP, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "avif":
		return FormatAVIF, nil
	case "auto", "":
		return FormatAuto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatAVIF:
		return ".avif"
	case FormatICO:
		return ".ico"
	default:
		return ".webp"
	}
}

func (f Format) Concrete() bool {
	switch f {
	case FormatWEBP, FormatJPEG, FormatPNG, FormatAVIF:
		return true
	}
	return false
}

// ColorMode mirrors the classic raster modes: RGB, RGBA, L (gray), LA and P (palette).
type ColorMode string

const (
	ModeRGB  ColorMode = "RGB"
	ModeRGBA ColorMode = "RGBA"
	ModeL    ColorMode = "L"
	ModeLA   ColorMode = "LA"
	ModeP    ColorMode = "P"
)

// Anchor selects which part of the image survives a square crop.
type Anchor string

const (
	AnchorCenter Anchor = "center"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

func ParseAnchor(s string) (Anchor, error) {
	switch a := Anchor(strings.ToLower(strings.TrimSpace(s))); a {
	case AnchorCenter, AnchorTop, AnchorBottom, AnchorLeft, AnchorRight:
		return a, nil
	case "":
		return AnchorCenter, nil
	}
	return "", fmt.Errorf("%w: crop anchor %q", ErrInvalidParameter, s)
}

// ContentType is the analyzer's guess about what the image depicts.
type ContentType string

const (
	ContentPhoto   ContentType = "PHOTO"
	ContentGraphic ContentType = "GRAPHIC"
	ContentMixed   ContentType = "MIXED"
)
