package entity

// AnalysisReport is the structured result of analysing one image. Color and
// complexity metrics are computed on a bounded sample and are approximate.
type AnalysisReport struct {
	Filename    string              `json:"filename,omitempty"`
	Basic       BasicInfo           `json:"basic_info"`
	Color       ColorMetrics        `json:"color"`
	Complexity  ComplexityMetrics   `json:"complexity"`
	Formats     []FormatScore       `json:"format_scores"`
	BestFormat  Format              `json:"best_format"`
	Suggestions SuggestionSummary   `json:"suggestions"`
	Performance PerformanceEstimate `json:"performance"`
}

type BasicInfo struct {
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	TotalPixels  int       `json:"total_pixels"`
	Megapixels   float64   `json:"megapixels"`
	AspectRatio  float64   `json:"aspect_ratio"`
	Orientation  string    `json:"orientation"`
	Mode         ColorMode `json:"mode"`
	HasAlpha     bool      `json:"has_alpha"`
	SourceFormat string    `json:"source_format"`
	SourceBytes  int64     `json:"source_bytes"`
	HasMetadata  bool      `json:"has_metadata"`
}

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type DominantColor struct {
	RGB        RGB     `json:"rgb"`
	Hex        string  `json:"hex"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Harmony string

const (
	HarmonyComplementary Harmony = "Complementary"
	HarmonyAnalogous     Harmony = "Analogous"
	HarmonyTriadic       Harmony = "Triadic"
	HarmonyNone          Harmony = "None"
)

type ColorMetrics struct {
	SampleWidth     int             `json:"sample_width"`
	SampleHeight    int             `json:"sample_height"`
	UniqueColors    int             `json:"unique_colors"`
	DominantColors  []DominantColor `json:"dominant_colors"`
	Brightness      float64         `json:"brightness"`
	Contrast        float64         `json:"contrast"`
	ContrastLevel   string          `json:"contrast_level"`
	Harmony         Harmony         `json:"harmony"`
	Monochrome      bool            `json:"monochrome"`
	ColorComplexity string          `json:"color_complexity"`
}

type ComplexityMetrics struct {
	EdgeDensity  float64     `json:"edge_density"`
	TextureScore float64     `json:"texture_score"`
	Texture      string      `json:"texture"`
	ContentType  ContentType `json:"content_type"`
}

type FormatScore struct {
	Format  Format   `json:"format"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type Suggestion struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
}

type SuggestionSummary struct {
	Items                 []Suggestion `json:"items"`
	HighPriority          int          `json:"high_priority"`
	OptimizationPotential string       `json:"optimization_potential"`
}

type LoadTimes struct {
	Slow3G    float64 `json:"slow_3g"`
	FourG     float64 `json:"4g"`
	Broadband float64 `json:"broadband"`
}

type FormatEstimate struct {
	Format         Format    `json:"format"`
	ProjectedBytes int64     `json:"projected_bytes"`
	LoadSeconds    LoadTimes `json:"load_seconds"`
}

type PerformanceEstimate struct {
	Estimates        []FormatEstimate `json:"estimates"`
	PerformanceScore float64          `json:"performance_score"`
}

// AggregateSuggestion is a deduplicated suggestion ranked by how many images raised it.
type AggregateSuggestion struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Count    int      `json:"count"`
}

// BatchAnalysisReport summarises per-image reports. It holds no image data.
type BatchAnalysisReport struct {
	Empty          bool                  `json:"empty"`
	TotalImages    int                   `json:"total_images"`
	Analyzed       int                   `json:"analyzed"`
	Failed         int                   `json:"failed"`
	Failures       map[string]string     `json:"failures,omitempty"`
	TotalMegapixel float64               `json:"total_megapixels"`
	AvgMegapixels  float64               `json:"avg_megapixels"`
	AvgBrightness  float64               `json:"avg_brightness"`
	AvgEdgeDensity float64               `json:"avg_edge_density"`
	AlphaImages    int                   `json:"alpha_images"`
	ContentTypes   map[ContentType]int   `json:"content_types"`
	BestFormats    map[Format]int        `json:"best_formats"`
	HighPotential  int                   `json:"high_potential"`
	Suggestions    []AggregateSuggestion `json:"suggestions"`
	Insights       []string              `json:"insights"`
	Reports        []AnalysisReport      `json:"reports,omitempty"`
}
