// Package sizing computes output dimensions and crop rectangles. All functions
// are pure and safe for concurrent use.
package sizing

import (
	"fmt"
	"math"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

// OriginalName names the synthetic entry returned when every catalog entry would upscale.
const OriginalName = "original"

// PlanResponsive scales the original so its long edge matches each catalog target,
// preserving aspect ratio. Targets at or above the original long edge are dropped;
// if nothing is left the original size is returned as a single "original" entry.
func PlanResponsive(width, height int, catalog Catalog) []entity.Size {
	long := max(width, height)
	var sizes []entity.Size
	for _, e := range catalog {
		if e.Target <= 0 || e.Target >= long {
			continue
		}
		w, h := scaleLongEdge(width, height, e.Target)
		sizes = append(sizes, entity.Size{Name: e.Name, Width: w, Height: h})
	}
	if len(sizes) == 0 {
		return []entity.Size{{Name: OriginalName, Width: width, Height: height}}
	}
	return sizes
}

// PlanThumbnails returns square sizes no larger than the square crop side min(width, height),
// with the same skip and fallback rule as PlanResponsive.
func PlanThumbnails(width, height int, catalog Catalog) []entity.Size {
	side := min(width, height)
	var sizes []entity.Size
	for _, e := range catalog {
		if e.Target <= 0 || e.Target >= side {
			continue
		}
		sizes = append(sizes, entity.Size{Name: e.Name, Width: e.Target, Height: e.Target})
	}
	if len(sizes) == 0 {
		return []entity.Size{{Name: OriginalName, Width: side, Height: side}}
	}
	return sizes
}

// PlanFavicons returns every requested square. Favicons are allowed to upscale a
// small logo, so no entry is ever skipped for size.
func PlanFavicons(catalog Catalog) []entity.Size {
	sizes := make([]entity.Size, 0, len(catalog))
	for _, e := range catalog {
		if e.Target <= 0 {
			continue
		}
		sizes = append(sizes, entity.Size{Name: e.Name, Width: e.Target, Height: e.Target})
	}
	return sizes
}

// PlanDensities multiplies a square base size by each density. Like favicons,
// vector exports may exceed any source dimension.
func PlanDensities(base int, densities []Density) []entity.Size {
	sizes := make([]entity.Size, 0, len(densities))
	for _, d := range densities {
		side := int(float64(base) * d.Multiplier)
		if side < 1 {
			continue
		}
		sizes = append(sizes, entity.Size{Name: fmt.Sprintf("%s-%dpx", d.Name, side), Width: side, Height: side})
	}
	return sizes
}

// PlanIOSIcons expands point sizes into @1x..@3x pixel squares.
func PlanIOSIcons(bases Catalog) []entity.Size {
	var sizes []entity.Size
	for _, e := range bases {
		for scale := 1; scale <= 3; scale++ {
			name := fmt.Sprintf("%s-%dpx", e.Name, e.Target*scale)
			if scale > 1 {
				name = fmt.Sprintf("%s@%dx", name, scale)
			}
			sizes = append(sizes, entity.Size{Name: name, Width: e.Target * scale, Height: e.Target * scale})
		}
	}
	return sizes
}

// FitWithin scales width x height down so both bounds hold, preserving aspect ratio.
// It never upscales; resized reports whether the size changed.
func FitWithin(width, height, maxWidth, maxHeight int) (w, h int, resized bool) {
	if width <= maxWidth && height <= maxHeight {
		return width, height, false
	}
	scale := math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	w = min(maxWidth, max(1, int(math.Round(float64(width)*scale))))
	h = min(maxHeight, max(1, int(math.Round(float64(height)*scale))))
	return w, h, true
}

// Contain scales width x height to the largest size that fits the box, upscaling if needed.
func Contain(width, height, boxWidth, boxHeight int) (int, int) {
	scale := math.Min(float64(boxWidth)/float64(width), float64(boxHeight)/float64(height))
	w := min(boxWidth, max(1, int(float64(width)*scale)))
	h := min(boxHeight, max(1, int(float64(height)*scale)))
	return w, h
}

func scaleLongEdge(width, height, target int) (int, int) {
	if width >= height {
		return target, max(1, int(math.Round(float64(target)*float64(height)/float64(width))))
	}
	return max(1, int(math.Round(float64(target)*float64(width)/float64(height)))), target
}
