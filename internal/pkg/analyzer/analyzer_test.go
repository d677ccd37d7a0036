package analyzer

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTone(w, h int, left, right color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return img
}

func noise(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 0xff
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestAnalyzeGraphic(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	report := a.Analyze(raster.FromImage(twoTone(200, 200, red, blue), "png", 1234))

	assert.Equal(t, 200, report.Basic.Width)
	assert.Equal(t, "square", report.Basic.Orientation)
	assert.Equal(t, 0.04, report.Basic.Megapixels)
	assert.Equal(t, int64(1234), report.Basic.SourceBytes)

	assert.Equal(t, 100, report.Color.SampleWidth)
	assert.Equal(t, 2, report.Color.UniqueColors)
	assert.Equal(t, "low", report.Color.ColorComplexity)
	require.Len(t, report.Color.DominantColors, 2)
	assert.Equal(t, 50.0, report.Color.DominantColors[0].Percentage)
	assert.Equal(t, entity.HarmonyNone, report.Color.Harmony)

	assert.Equal(t, entity.ContentGraphic, report.Complexity.ContentType)
	assert.Less(t, report.Complexity.EdgeDensity, 0.08)

	assert.Contains(t, messages(report.Suggestions.Items), msgPNGPalette)
}

func TestAnalyzePhoto(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	report := a.Analyze(raster.FromImage(noise(300, 200, 3), "jpeg", 0))

	assert.Equal(t, "standard", report.Basic.Orientation)
	assert.Equal(t, 100, report.Color.SampleWidth)
	assert.Equal(t, 67, report.Color.SampleHeight)
	assert.Greater(t, report.Color.UniqueColors, 1000)
	assert.Equal(t, "high", report.Color.ColorComplexity)
	assert.Equal(t, entity.ContentPhoto, report.Complexity.ContentType)
	assert.Equal(t, "detailed", report.Complexity.Texture)

	assert.Equal(t, entity.FormatAVIF, report.BestFormat)
	require.Len(t, report.Formats, 4)
	for i := 1; i < len(report.Formats); i++ {
		assert.GreaterOrEqual(t, report.Formats[i-1].Score, report.Formats[i].Score)
	}
	for _, f := range report.Formats {
		assert.NotEmpty(t, f.Reasons)
		assert.LessOrEqual(t, len(f.Reasons), 3)
	}
}

func TestContentTypeMatchesAnalyze(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	for _, img := range []image.Image{twoTone(120, 80, red, blue), noise(120, 80, 9)} {
		h := raster.FromImage(img, "png", 0)
		assert.Equal(t, a.Analyze(h).Complexity.ContentType, a.ContentType(h))
	}
}

func TestContrastAndBrightness(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	report := a.Analyze(raster.FromImage(twoTone(100, 100, black, white), "png", 0))
	assert.Equal(t, 127.5, report.Color.Brightness)
	assert.Equal(t, "High", report.Color.ContrastLevel)
	assert.True(t, report.Color.Monochrome)

	flat := a.Analyze(raster.FromImage(twoTone(100, 100, white, white), "png", 0))
	assert.Equal(t, 0.0, flat.Color.Contrast)
	assert.Equal(t, "Low", flat.Color.ContrastLevel)
}

func TestTransparentImageScoring(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	img := twoTone(64, 64, color.NRGBA{R: 255, A: 80}, color.NRGBA{A: 0})
	report := a.Analyze(raster.FromImage(img, "png", 0))

	require.True(t, report.Basic.HasAlpha)
	last := report.Formats[len(report.Formats)-1]
	assert.Equal(t, entity.FormatJPEG, last.Format)
	assert.Contains(t, last.Reasons, "drops transparency")
	assert.Contains(t, messages(report.Suggestions.Items), msgTransparency)
	assert.GreaterOrEqual(t, report.Suggestions.HighPriority, 1)
}

func TestHarmony(t *testing.T) {
	a := &analyzer{cfg: DefaultThresholds()}
	dc := func(colors ...entity.RGB) []entity.DominantColor {
		out := make([]entity.DominantColor, len(colors))
		for i, c := range colors {
			out[i] = entity.DominantColor{RGB: c}
		}
		return out
	}

	tests := []struct {
		name   string
		colors []entity.DominantColor
		want   entity.Harmony
	}{
		{name: "complementary", colors: dc(entity.RGB{R: 255}, entity.RGB{G: 255, B: 255}), want: entity.HarmonyComplementary},
		{name: "triadic", colors: dc(entity.RGB{R: 255}, entity.RGB{G: 255}, entity.RGB{B: 255}), want: entity.HarmonyTriadic},
		{name: "analogous", colors: dc(entity.RGB{R: 255}, entity.RGB{R: 255, G: 64}), want: entity.HarmonyAnalogous},
		{name: "grays have no hue", colors: dc(entity.RGB{R: 40, G: 40, B: 40}, entity.RGB{R: 200, G: 200, B: 200}), want: entity.HarmonyNone},
		{name: "single color", colors: dc(entity.RGB{R: 255}), want: entity.HarmonyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.harmony(tt.colors))
		})
	}
}

func TestClassifyUsesThresholds(t *testing.T) {
	cfg := DefaultThresholds()
	a := &analyzer{cfg: cfg}

	assert.Equal(t, entity.ContentPhoto, a.classify(0.5, 5000))
	assert.Equal(t, entity.ContentGraphic, a.classify(0.01, 10))
	assert.Equal(t, entity.ContentMixed, a.classify(0.01, 5000))

	cfg.UniqueColorsMedium = 10000
	tuned := &analyzer{cfg: cfg}
	assert.Equal(t, entity.ContentMixed, tuned.classify(0.5, 5000))
}

func TestPerformanceEstimate(t *testing.T) {
	est := performance(1_000_000, entity.ContentPhoto)
	require.Len(t, est.Estimates, 4)

	byFormat := map[entity.Format]entity.FormatEstimate{}
	for _, e := range est.Estimates {
		byFormat[e.Format] = e
	}
	assert.Equal(t, int64(500000), byFormat[entity.FormatJPEG].ProjectedBytes)
	assert.Equal(t, int64(1200000), byFormat[entity.FormatPNG].ProjectedBytes)
	assert.Less(t, byFormat[entity.FormatJPEG].LoadSeconds.Broadband, byFormat[entity.FormatJPEG].LoadSeconds.Slow3G)
	assert.Equal(t, 80.0, est.PerformanceScore)
}

func TestSummarizeEmpty(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	report := a.Summarize(nil, nil)

	assert.True(t, report.Empty)
	assert.Zero(t, report.TotalImages)
	assert.Zero(t, report.Analyzed)
	assert.Zero(t, report.AvgMegapixels)
	assert.Empty(t, report.Suggestions)
}

func TestSummarizeMergesSuggestions(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())
	graphic := a.Analyze(raster.FromImage(twoTone(100, 100, red, blue), "png", 0))
	photo := a.Analyze(raster.FromImage(noise(100, 100, 5), "jpeg", 0))

	report := a.Summarize(
		[]entity.AnalysisReport{graphic, graphic, photo},
		map[string]string{"broken.png": "decode failure"},
	)

	assert.False(t, report.Empty)
	assert.Equal(t, 4, report.TotalImages)
	assert.Equal(t, 3, report.Analyzed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.ContentTypes[entity.ContentGraphic])
	assert.Equal(t, 1, report.ContentTypes[entity.ContentPhoto])

	require.NotEmpty(t, report.Suggestions)
	assert.Equal(t, 2, report.Suggestions[0].Count)
	seen := map[string]bool{}
	for i, s := range report.Suggestions {
		assert.False(t, seen[s.Message], "duplicate suggestion %q", s.Message)
		seen[s.Message] = true
		if i > 0 {
			assert.GreaterOrEqual(t, report.Suggestions[i-1].Count, s.Count)
		}
	}
	assert.Contains(t, report.Insights, "Many images appear to be graphics or logos, PNG or lossless WebP keeps edges crisp")
}

func messages(items []entity.Suggestion) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Message
	}
	return out
}
