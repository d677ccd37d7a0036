package analyzer

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/sizing"
)

// lumaGrid converts a point-sampled copy of img, at most limit pixels on the
// long edge, to a luma matrix.
func lumaGrid(img image.Image, limit int) ([][]float64, int, int) {
	b := img.Bounds()
	w, h, resized := sizing.FitWithin(b.Dx(), b.Dy(), limit, limit)
	if w == 0 || h == 0 {
		return nil, 0, 0
	}

	var small *image.NRGBA
	if resized {
		small = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	} else {
		small = imaging.Clone(img)
	}

	grid := make([][]float64, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			i := small.PixOffset(x, y)
			p := small.Pix[i : i+4 : i+4]
			grid[y][x] = luma(overWhite(p[0], p[1], p[2], p[3]))
		}
	}
	return grid, w, h
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

func (a *analyzer) complexityMetrics(img image.Image, color entity.ColorMetrics) entity.ComplexityMetrics {
	grid, w, h := lumaGrid(img, a.cfg.EdgeSampleSize)
	m := entity.ComplexityMetrics{Texture: "smooth"}
	if w < 3 || h < 3 {
		m.ContentType = a.classify(0, color.UniqueColors)
		return m
	}

	var edges, interior int
	var variation float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy, diff float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := grid[y+dy][x+dx]
					gx += sobelX[dy+1][dx+1] * v
					gy += sobelY[dy+1][dx+1] * v
					diff += math.Abs(grid[y][x] - v)
				}
			}
			if math.Hypot(gx, gy) > a.cfg.EdgeMagnitude {
				edges++
			}
			variation += diff / 8
			interior++
		}
	}

	m.EdgeDensity = round2(float64(edges) / float64(interior))
	m.TextureScore = round1(variation / float64(interior))
	switch {
	case m.TextureScore < a.cfg.TextureSmooth:
		m.Texture = "smooth"
	case m.TextureScore < a.cfg.TextureDetailed:
		m.Texture = "moderate"
	default:
		m.Texture = "detailed"
	}
	m.ContentType = a.classify(m.EdgeDensity, color.UniqueColors)
	return m
}

// classify guesses the content type from edge density and color count.
func (a *analyzer) classify(edgeDensity float64, uniqueColors int) entity.ContentType {
	switch {
	case edgeDensity > a.cfg.EdgeDensityMedium && uniqueColors > a.cfg.UniqueColorsMedium:
		return entity.ContentPhoto
	case uniqueColors < a.cfg.UniqueColorsLow && edgeDensity < a.cfg.EdgeDensityLow:
		return entity.ContentGraphic
	}
	return entity.ContentMixed
}
