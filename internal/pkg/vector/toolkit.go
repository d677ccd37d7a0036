// Package vector validates, optimizes, analyses and rasterizes SVG documents.
package vector

import (
	"bytes"
	"fmt"
	"math"
	"regexp"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
)

const (
	maxGradients        = 5
	complexPathCommands = 20
	maxElements         = 100
	mobileMaxScore      = 70
	simplifyScore       = 50
	largeSVGBytes       = 50000
	optimizeSVGBytes    = 20000
)

var pathCommand = regexp.MustCompile(`[MmLlHhVvCcSsQqTtAaZz]`)

type Toolkit interface {
	Validate(svg []byte) entity.SVGValidation
	Optimize(svg []byte, aggressive bool) entity.SVGOptimization
	Analyze(svg []byte) entity.SVGComplexity
	Report(filename string, svg []byte) entity.SVGReport
	Rasterize(svg []byte, width, height int) (*raster.Handle, error)
}

type toolkit struct{}

func NewToolkit() Toolkit {
	return &toolkit{}
}

func (t *toolkit) Validate(svg []byte) entity.SVGValidation {
	doc, err := parse(svg)
	if err != nil {
		return entity.SVGValidation{Issues: []string{fmt.Sprintf("XML parsing error: %v", err)}}
	}

	var issues []string
	if doc.root.Name.Local != "svg" {
		issues = append(issues, "Root element is not <svg>")
	}
	_, hasViewBox := doc.attr("viewBox")
	if !hasViewBox {
		issues = append(issues, "Missing viewBox attribute (recommended for scalability)")
	}
	_, hasWidth := doc.attr("width")
	_, hasHeight := doc.attr("height")
	if !hasWidth || !hasHeight {
		issues = append(issues, "Missing width or height attributes")
	}
	if !doc.hasTitle && !doc.hasDesc {
		issues = append(issues, "Missing accessibility elements (title or desc)")
	}
	if bytes.Contains(svg, []byte("data:")) {
		issues = append(issues, "Contains embedded images (may increase file size)")
	}
	if g := gradients(doc.counts); g > maxGradients {
		issues = append(issues, fmt.Sprintf("Many gradients (%d) may impact performance", g))
	}
	if f := doc.counts["filter"]; f > 0 {
		issues = append(issues, fmt.Sprintf("Contains filters (%d), check mobile compatibility", f))
	}

	return entity.SVGValidation{
		Valid:         len(issues) == 0,
		Issues:        issues,
		ElementsCount: doc.elements,
		HasViewBox:    hasViewBox,
		HasDimensions: hasWidth && hasHeight,
	}
}

func (t *toolkit) Analyze(svg []byte) entity.SVGComplexity {
	doc, err := parse(svg)
	if err != nil {
		return entity.SVGComplexity{
			Error:             "Invalid SVG format",
			ComplexityScore:   100,
			PerformanceIssues: []string{"Cannot parse SVG"},
			FileSize:          len(svg),
		}
	}

	out := entity.SVGComplexity{
		TotalElements: doc.elements,
		ElementCounts: doc.counts,
		PathCount:     len(doc.paths),
		FileSize:      len(svg),
	}
	for _, d := range doc.paths {
		n := len(pathCommand.FindAllStringIndex(d, -1))
		out.TotalPathCommands += n
		if n > complexPathCommands {
			out.ComplexPaths++
		}
	}

	if doc.elements > maxElements {
		out.PerformanceIssues = append(out.PerformanceIssues, fmt.Sprintf("Many elements (%d), consider simplification", doc.elements))
	}
	if out.ComplexPaths > 0 {
		out.PerformanceIssues = append(out.PerformanceIssues, fmt.Sprintf("%d complex paths detected", out.ComplexPaths))
	}
	if gradients(doc.counts) > maxGradients {
		out.PerformanceIssues = append(out.PerformanceIssues, "Many gradients may impact rendering performance")
	}
	if doc.counts["filter"] > 0 {
		out.PerformanceIssues = append(out.PerformanceIssues, "Contains filters, check mobile compatibility")
	}

	score := float64(doc.elements)*0.5 +
		float64(out.TotalPathCommands)*0.1 +
		float64(gradients(doc.counts))*2 +
		float64(doc.counts["filter"])*5
	out.ComplexityScore = math.Min(100, math.Round(score*10)/10)
	return out
}

func (t *toolkit) Report(filename string, svg []byte) entity.SVGReport {
	validation := t.Validate(svg)
	complexity := t.Analyze(svg)

	mobile := entity.MobileCompatibility{Compatible: true, Issues: []string{}}
	if complexity.ComplexityScore > mobileMaxScore {
		mobile.Compatible = false
		mobile.Issues = append(mobile.Issues, "High complexity may cause performance issues on mobile")
	}
	if complexity.ElementCounts["filter"] > 0 {
		mobile.Compatible = false
		mobile.Issues = append(mobile.Issues, "SVG filters may not render consistently on all mobile browsers")
	}
	if len(svg) > largeSVGBytes {
		mobile.Issues = append(mobile.Issues, "Large file size, consider optimization")
	}

	return entity.SVGReport{
		Filename:        filename,
		FileSize:        len(svg),
		Validation:      validation,
		Optimization:    t.Optimize(svg, false),
		Complexity:      complexity,
		Mobile:          mobile,
		Recommendations: recommendations(validation, complexity, len(svg)),
	}
}

func recommendations(v entity.SVGValidation, c entity.SVGComplexity, size int) []string {
	var out []string
	if !v.Valid {
		out = append(out, "Fix validation errors before using in production")
	}
	if !v.HasViewBox {
		out = append(out, "Add viewBox attribute for better scalability")
	}
	if c.ComplexityScore > simplifyScore {
		out = append(out, "Consider simplifying paths and reducing elements")
	}
	if size > optimizeSVGBytes {
		out = append(out, "Optimize SVG to reduce file size")
	}
	if c.ComplexPaths > 0 {
		out = append(out, "Simplify complex paths for better mobile performance")
	}
	if len(c.PerformanceIssues) > 0 {
		out = append(out, "Address performance issues for mobile compatibility")
	}
	if len(out) == 0 {
		out = append(out, "SVG is well-optimized for mobile use")
	}
	return out
}

func gradients(counts map[string]int) int {
	return counts["linearGradient"] + counts["radialGradient"]
}
