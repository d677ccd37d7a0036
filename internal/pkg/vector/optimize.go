package vector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

var (
	comments = regexp.MustCompile(`(?s)<!--.*?-->`)

	editorElements = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<metadata.*?</metadata>`),
		regexp.MustCompile(`(?i)<defs>\s*</defs>`),
		regexp.MustCompile(`(?is)<sodipodi:[^>]*>`),
		regexp.MustCompile(`(?is)<inkscape:[^>]*>`),
		regexp.MustCompile(`(?is)<cc:[^>]*>`),
		regexp.MustCompile(`(?is)<dc:[^>]*>`),
		regexp.MustCompile(`(?is)<rdf:.*?</rdf:[^>]*>`),
	}

	editorAttributes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+xmlns:(sodipodi|inkscape|cc|dc|rdf)="[^"]*"`),
		regexp.MustCompile(`(?i)\s+(sodipodi|inkscape):[^=\s]*="[^"]*"`),
	}

	longDecimal = regexp.MustCompile(`\d+\.\d{3,}`)

	// attributes equal to the SVG defaults; the trailing group keeps the delimiter
	defaultAttributes = []*regexp.Regexp{
		regexp.MustCompile(`\s+fill="none"(\s|/?>)`),
		regexp.MustCompile(`\s+stroke="none"(\s|/?>)`),
		regexp.MustCompile(`\s+stroke-width="1"(\s|/?>)`),
	}

	whitespace  = regexp.MustCompile(`\s+`)
	betweenTags = regexp.MustCompile(`>\s+<`)
)

// Optimize strips comments, editor metadata and redundant whitespace. Aggressive
// mode also rounds long decimals to two places and drops default attributes.
func (t *toolkit) Optimize(svg []byte, aggressive bool) entity.SVGOptimization {
	out := comments.ReplaceAllString(string(svg), "")
	for _, re := range editorElements {
		out = re.ReplaceAllString(out, "")
	}
	for _, re := range editorAttributes {
		out = re.ReplaceAllString(out, "")
	}

	if aggressive {
		out = longDecimal.ReplaceAllStringFunc(out, func(s string) string {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return s
			}
			return strconv.FormatFloat(v, 'f', 2, 64)
		})
		for _, re := range defaultAttributes {
			out = re.ReplaceAllString(out, "${1}")
		}
	}

	out = whitespace.ReplaceAllString(out, " ")
	out = betweenTags.ReplaceAllString(out, "><")
	out = strings.TrimSpace(out)

	res := entity.SVGOptimization{
		SVG:           out,
		OriginalSize:  len(svg),
		OptimizedSize: len(out),
		SizeReduction: len(svg) - len(out),
	}
	if len(svg) > 0 {
		res.CompressionRatio = float64(res.SizeReduction) / float64(len(svg)) * 100
	}
	return res
}
