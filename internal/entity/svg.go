package entity

type SVGValidation struct {
	Valid         bool     `json:"valid"`
	Issues        []string `json:"issues"`
	ElementsCount int      `json:"elements_count"`
	HasViewBox    bool     `json:"has_viewbox"`
	HasDimensions bool     `json:"has_dimensions"`
}

type SVGOptimization struct {
	SVG              string  `json:"optimized_svg"`
	OriginalSize     int     `json:"original_size"`
	OptimizedSize    int     `json:"optimized_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	SizeReduction    int     `json:"size_reduction"`
}

type SVGComplexity struct {
	Error             string         `json:"error,omitempty"`
	TotalElements     int            `json:"total_elements"`
	ElementCounts     map[string]int `json:"element_counts"`
	PathCount         int            `json:"path_count"`
	TotalPathCommands int            `json:"total_path_commands"`
	ComplexPaths      int            `json:"complex_paths"`
	ComplexityScore   float64        `json:"complexity_score"`
	PerformanceIssues []string       `json:"performance_issues"`
	FileSize          int            `json:"file_size"`
}

type MobileCompatibility struct {
	Compatible bool     `json:"compatible"`
	Issues     []string `json:"issues"`
}

// SVGReport bundles validation, optimization preview and complexity of one SVG file.
type SVGReport struct {
	Filename        string              `json:"filename"`
	FileSize        int                 `json:"file_size"`
	Validation      SVGValidation       `json:"validation"`
	Optimization    SVGOptimization     `json:"optimization"`
	Complexity      SVGComplexity       `json:"complexity"`
	Mobile          MobileCompatibility `json:"mobile_compatibility"`
	Recommendations []string            `json:"recommendations"`
}

// ExportedFile is one rendering of an SVG export, bytes included.
type ExportedFile struct {
	ConversionResult
	Data []byte `json:"data,omitempty"`
}
