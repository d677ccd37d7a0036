package analyzer

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/sizing"
	"golang.org/x/image/draw"
)

// bucketShift quantizes each channel to 8 levels for dominant color clustering.
const bucketShift = 5

// sample is a grid of opaque RGB pixels taken from the image.
type sample struct {
	width, height int
	pix           []entity.RGB
}

// colorSample picks pixels on a nearest-neighbour grid whose long edge is at most
// limit, flattening transparency over white. Nearest sampling keeps real colors,
// resampling filters would invent blends.
func colorSample(img image.Image, limit int) sample {
	b := img.Bounds()
	w, h, _ := sizing.FitWithin(b.Dx(), b.Dy(), limit, limit)

	grid := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(grid, grid.Bounds(), img, b, draw.Src, nil)

	s := sample{width: w, height: h, pix: make([]entity.RGB, 0, w*h)}
	for i := 0; i+3 < len(grid.Pix); i += 4 {
		s.pix = append(s.pix, overWhite(grid.Pix[i], grid.Pix[i+1], grid.Pix[i+2], grid.Pix[i+3]))
	}
	return s
}

func overWhite(r, g, b, a uint8) entity.RGB {
	if a == 0xff {
		return entity.RGB{R: r, G: g, B: b}
	}
	blend := func(c uint8) uint8 {
		return uint8((int(c)*int(a) + 255*(255-int(a)) + 127) / 255)
	}
	return entity.RGB{R: blend(r), G: blend(g), B: blend(b)}
}

func luma(c entity.RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

func (a *analyzer) colorMetrics(img image.Image) entity.ColorMetrics {
	s := colorSample(img, a.cfg.ColorSampleSize)
	m := entity.ColorMetrics{SampleWidth: s.width, SampleHeight: s.height}
	if len(s.pix) == 0 {
		m.Harmony = entity.HarmonyNone
		return m
	}

	unique := make(map[entity.RGB]struct{})
	var sum, sumSq, sat float64
	for _, c := range s.pix {
		unique[c] = struct{}{}
		l := luma(c)
		sum += l
		sumSq += l * l
		_, sv, _ := hsv(c)
		sat += sv
	}
	n := float64(len(s.pix))
	mean := sum / n

	m.UniqueColors = len(unique)
	m.Brightness = round1(mean)
	m.Contrast = round1(math.Sqrt(math.Max(0, sumSq/n-mean*mean)))
	m.ContrastLevel = a.contrastLevel(m.Contrast)
	m.Monochrome = sat/n < a.cfg.MonochromeSaturation
	m.ColorComplexity = a.colorComplexity(m.UniqueColors)
	m.DominantColors = dominantColors(s.pix, a.cfg.DominantColors)
	m.Harmony = a.harmony(m.DominantColors)
	return m
}

func (a *analyzer) contrastLevel(stddev float64) string {
	switch {
	case stddev >= a.cfg.ContrastHigh:
		return "High"
	case stddev >= a.cfg.ContrastMedium:
		return "Medium"
	}
	return "Low"
}

func (a *analyzer) colorComplexity(unique int) string {
	switch {
	case unique < a.cfg.UniqueColorsLow:
		return "low"
	case unique < a.cfg.UniqueColorsMedium:
		return "medium"
	}
	return "high"
}

type bucket struct {
	key     int
	count   int
	r, g, b int
}

// dominantColors clusters pixels into fixed buckets and returns the mean color of
// the top buckets by frequency. Ties are broken by bucket key to stay deterministic.
func dominantColors(pix []entity.RGB, top int) []entity.DominantColor {
	buckets := make(map[int]*bucket)
	for _, c := range pix {
		key := int(c.R>>bucketShift)<<6 | int(c.G>>bucketShift)<<3 | int(c.B>>bucketShift)
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{key: key}
			buckets[key] = bk
		}
		bk.count++
		bk.r += int(c.R)
		bk.g += int(c.G)
		bk.b += int(c.B)
	}

	list := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		list = append(list, bk)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})

	out := make([]entity.DominantColor, 0, top)
	for _, bk := range list[:min(top, len(list))] {
		c := entity.RGB{R: uint8(bk.r / bk.count), G: uint8(bk.g / bk.count), B: uint8(bk.b / bk.count)}
		out = append(out, entity.DominantColor{
			RGB:        c,
			Hex:        fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			Count:      bk.count,
			Percentage: round1(float64(bk.count) / float64(len(pix)) * 100),
		})
	}
	return out
}

// harmony classifies the hue relationships of the chromatic dominant colors.
// Grays carry no hue and are ignored.
func (a *analyzer) harmony(colors []entity.DominantColor) entity.Harmony {
	var hues []float64
	for _, c := range colors {
		h, s, v := hsv(c.RGB)
		if s >= 0.2 && v >= 0.2 {
			hues = append(hues, h)
		}
	}
	if len(hues) < 2 {
		return entity.HarmonyNone
	}

	analogous := true
	complementary := false
	for i := 0; i < len(hues); i++ {
		for j := i + 1; j < len(hues); j++ {
			d := hueDistance(hues[i], hues[j])
			if d > a.cfg.AnalogousMaxHue {
				analogous = false
			}
			if d >= a.cfg.ComplementaryMinHue {
				complementary = true
			}
		}
	}

	switch {
	case analogous:
		return entity.HarmonyAnalogous
	case a.triadic(hues):
		return entity.HarmonyTriadic
	case complementary:
		return entity.HarmonyComplementary
	}
	return entity.HarmonyNone
}

func (a *analyzer) triadic(hues []float64) bool {
	near120 := func(d float64) bool { return math.Abs(d-120) <= a.cfg.TriadicTolerance }
	for i := 0; i < len(hues); i++ {
		for j := i + 1; j < len(hues); j++ {
			for k := j + 1; k < len(hues); k++ {
				if near120(hueDistance(hues[i], hues[j])) &&
					near120(hueDistance(hues[j], hues[k])) &&
					near120(hueDistance(hues[i], hues[k])) {
					return true
				}
			}
		}
	}
	return false
}

func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// hsv returns hue in degrees and saturation/value in [0,1].
func hsv(c entity.RGB) (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	v = mx
	d := mx - mn
	if mx > 0 {
		s = d / mx
	}
	if d == 0 {
		return 0, s, v
	}
	switch mx {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
