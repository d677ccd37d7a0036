package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/analyzer"
	"github.com/ds124wfegd/imagekit/internal/pkg/codec"
	"github.com/ds124wfegd/imagekit/internal/pkg/optimizer"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/ds124wfegd/imagekit/internal/pkg/sizing"
	"github.com/ds124wfegd/imagekit/internal/pkg/vector"
	"github.com/sirupsen/logrus"
)

// Source is one named input file of a batch.
type Source struct {
	Filename string
	Data     []byte
}

type ImageProcessor interface {
	// Expand turns a request into the output specs for one image.
	Expand(h *raster.Handle, req entity.Request) ([]entity.OutputSpec, error)
	// Process materializes every spec. A failing spec does not stop the others.
	Process(ctx context.Context, h *raster.Handle, filename string, specs []entity.OutputSpec) []entity.ConversionResult
	ProcessBatch(ctx context.Context, sources []Source, req entity.Request) (*entity.BatchResult, error)

	Analyze(src Source) (entity.AnalysisReport, error)
	AnalyzeBatch(ctx context.Context, sources []Source) entity.BatchAnalysisReport
	PreviewPlan(src Source, preset string, overrides entity.Overrides) (optimizer.Plan, error)

	// ExportSVG renders svg at every size and encodes each rendering as format.
	ExportSVG(ctx context.Context, svg Source, sizes []entity.Size, format entity.Format) []entity.ConversionResult
}

type Options struct {
	Workers        int
	DefaultQuality int
}

type imageProcessor struct {
	engine   raster.Engine
	analyzer analyzer.Analyzer
	vector   vector.Toolkit
	opts     Options
}

func NewImageProcessor(engine raster.Engine, an analyzer.Analyzer, vt vector.Toolkit, opts Options) ImageProcessor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.DefaultQuality <= 0 {
		opts.DefaultQuality = 85
	}
	return &imageProcessor{engine: engine, analyzer: an, vector: vt, opts: opts}
}

func (p *imageProcessor) Expand(h *raster.Handle, req entity.Request) ([]entity.OutputSpec, error) {
	var specs []entity.OutputSpec

	switch req.Kind {
	case entity.KindConvert:
		specs = append(specs, entity.OutputSpec{
			Name:     "converted",
			Format:   req.Format,
			Quality:  req.Quality,
			Lossless: req.Lossless,
		})

	case entity.KindResponsive:
		for _, s := range sizing.PlanResponsive(h.Width(), h.Height(), sizing.ResponsiveCatalog.Select(req.Sizes)) {
			specs = append(specs, entity.OutputSpec{
				Name:     s.Name,
				Format:   req.Format,
				Quality:  req.Quality,
				Lossless: req.Lossless,
				Width:    s.Width,
				Height:   s.Height,
			})
		}

	case entity.KindThumbnail:
		anchor, err := entity.ParseAnchor(string(req.Anchor))
		if err != nil {
			return nil, err
		}
		for _, s := range sizing.PlanThumbnails(h.Width(), h.Height(), sizing.ThumbnailCatalog.Select(req.Sizes)) {
			specs = append(specs, entity.OutputSpec{
				Name:     s.Name,
				Format:   req.Format,
				Quality:  req.Quality,
				Lossless: req.Lossless,
				Width:    s.Width,
				Height:   s.Height,
				Anchor:   anchor,
			})
		}

	case entity.KindFavicon:
		for _, s := range sizing.PlanFavicons(sizing.FaviconCatalog.Select(req.Sizes)) {
			specs = append(specs, entity.OutputSpec{
				Name:       s.Name,
				Format:     entity.FormatPNG,
				Lossless:   true,
				Width:      s.Width,
				Height:     s.Height,
				Pad:        true,
				Background: req.Background,
			})
		}
		if sizing.WantsICO(req.Sizes) {
			side := sizing.ICOSizes[len(sizing.ICOSizes)-1]
			specs = append(specs, entity.OutputSpec{
				Name:       "favicon",
				Format:     entity.FormatICO,
				Lossless:   true,
				Width:      side,
				Height:     side,
				Pad:        true,
				Background: req.Background,
			})
		}

	case entity.KindCompare:
		for _, f := range entity.OutputFormats {
			specs = append(specs, entity.OutputSpec{
				Name:     string(f),
				Format:   f,
				Quality:  req.Quality,
				Lossless: req.Lossless,
			})
		}

	case entity.KindOptimize:
		preset, err := optimizer.Lookup(req.Preset)
		if err != nil {
			return nil, err
		}
		plan := optimizer.BuildPlan(h, optimizer.Apply(preset, req.Overrides), p.analyzer)
		specs = append(specs, entity.OutputSpec{
			Name:          "optimized",
			Format:        plan.Format,
			Quality:       plan.Quality,
			Width:         plan.Width,
			Height:        plan.Height,
			StripMetadata: plan.StripMetadata,
		})

	default:
		return nil, fmt.Errorf("%w: job kind %q", entity.ErrInvalidParameter, req.Kind)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no known sizes in %v", entity.ErrInvalidParameter, req.Sizes)
	}
	return specs, nil
}

func (p *imageProcessor) Process(ctx context.Context, h *raster.Handle, filename string, specs []entity.OutputSpec) []entity.ConversionResult {
	results := make([]entity.ConversionResult, 0, len(specs))

	// Ориентация по EXIF всегда до кропа и ресайза
	oriented, err := p.engine.CorrectOrientation(h)
	if err != nil {
		for _, spec := range specs {
			results = append(results, failed(spec, err))
		}
		return results
	}

	base := baseName(filename)
	for _, spec := range specs {
		res := p.processSpec(oriented, base, spec)
		if !res.Success {
			logrus.WithFields(logrus.Fields{
				"image":  filename,
				"output": spec.Name,
				"format": spec.Format,
			}).WithError(res.Err).Warn("output failed")
		}
		results = append(results, res)
	}
	return results
}

// processSpec runs crop, resize, metadata and encode for one spec.
func (p *imageProcessor) processSpec(h *raster.Handle, base string, spec entity.OutputSpec) entity.ConversionResult {
	if spec.Format == entity.FormatICO {
		return p.processICO(h, base, spec)
	}

	// параметры проверяются до любых вызовов движка
	if _, err := codec.Resolve(spec.Format, spec.Quality, spec.Lossless, h.HasAlpha(), p.engine); err != nil {
		return failed(spec, err)
	}

	cur := h
	var err error

	if spec.Anchor != "" {
		rect := sizing.SquareCrop(cur.Width(), cur.Height(), spec.Anchor)
		if cur, err = p.engine.Crop(cur, rect); err != nil {
			return failed(spec, err)
		}
	}

	switch {
	case spec.Pad && spec.Width > 0 && spec.Height > 0:
		w, ht := sizing.Contain(cur.Width(), cur.Height(), spec.Width, spec.Height)
		if cur, err = p.engine.Resize(cur, w, ht); err != nil {
			return failed(spec, err)
		}
		if cur, err = p.engine.Compose(cur, spec.Width, spec.Height, spec.Background); err != nil {
			return failed(spec, err)
		}
	case spec.Width > 0 && spec.Height > 0:
		if cur, err = p.engine.Resize(cur, spec.Width, spec.Height); err != nil {
			return failed(spec, err)
		}
	}

	if spec.StripMetadata {
		cur = p.engine.StripMetadata(cur)
	}

	// alpha may have appeared on a padded canvas
	params, err := codec.Resolve(spec.Format, spec.Quality, spec.Lossless, cur.HasAlpha(), p.engine)
	if err != nil {
		return failed(spec, err)
	}
	if params.FlattenAlpha {
		if cur, err = p.engine.ConvertColorMode(cur, entity.ModeRGB); err != nil {
			return failed(spec, err)
		}
	}

	data, err := p.engine.Encode(cur, params)
	if err != nil {
		return failed(spec, err)
	}

	return entity.ConversionResult{
		Name:             spec.Name,
		Filename:         fmt.Sprintf("%s_%s%s", base, spec.Name, params.Format.Extension()),
		RequestedFormat:  spec.Format,
		Format:           params.Format,
		Substituted:      params.Substituted,
		Width:            cur.Width(),
		Height:           cur.Height(),
		Quality:          params.Quality,
		Lossless:         params.Lossless,
		MetadataStripped: !cur.HasMetadata(),
		Bytes:            int64(len(data)),
		Success:          true,
		Data:             data,
	}
}

// processICO renders every ICO square as a padded PNG and packs them into one file.
func (p *imageProcessor) processICO(h *raster.Handle, base string, spec entity.OutputSpec) entity.ConversionResult {
	frames := make([]raster.ICOFrame, 0, len(sizing.ICOSizes))
	for _, side := range sizing.ICOSizes {
		frame := p.processSpec(h, base, entity.OutputSpec{
			Name:       fmt.Sprintf("%s-%d", spec.Name, side),
			Format:     entity.FormatPNG,
			Lossless:   true,
			Width:      side,
			Height:     side,
			Pad:        true,
			Background: spec.Background,
		})
		if !frame.Success {
			return failed(spec, frame.Err)
		}
		frames = append(frames, raster.ICOFrame{Side: side, PNG: frame.Data})
	}

	data, err := raster.PackICO(frames)
	if err != nil {
		return failed(spec, err)
	}

	largest := sizing.ICOSizes[len(sizing.ICOSizes)-1]
	return entity.ConversionResult{
		Name:            spec.Name,
		Filename:        fmt.Sprintf("%s_%s%s", base, spec.Name, entity.FormatICO.Extension()),
		RequestedFormat: entity.FormatICO,
		Format:          entity.FormatICO,
		Width:           largest,
		Height:          largest,
		Lossless:        true,
		Bytes:           int64(len(data)),
		Success:         true,
		Data:            data,
	}
}

func (p *imageProcessor) Analyze(src Source) (entity.AnalysisReport, error) {
	h, err := p.decode(src)
	if err != nil {
		return entity.AnalysisReport{}, err
	}
	report := p.analyzer.Analyze(h)
	report.Filename = src.Filename
	return report, nil
}

func (p *imageProcessor) PreviewPlan(src Source, preset string, overrides entity.Overrides) (optimizer.Plan, error) {
	base, err := optimizer.Lookup(preset)
	if err != nil {
		return optimizer.Plan{}, err
	}
	h, err := p.decode(src)
	if err != nil {
		return optimizer.Plan{}, err
	}
	return optimizer.BuildPlan(h, optimizer.Apply(base, overrides), p.analyzer), nil
}

func (p *imageProcessor) ExportSVG(ctx context.Context, svg Source, sizes []entity.Size, format entity.Format) []entity.ConversionResult {
	results := make([]entity.ConversionResult, 0, len(sizes))
	base := baseName(svg.Filename)
	for _, s := range sizes {
		spec := entity.OutputSpec{
			Name:     s.Name,
			Format:   format,
			Quality:  p.opts.DefaultQuality,
			Lossless: format == entity.FormatPNG,
		}
		h, err := p.vector.Rasterize(svg.Data, s.Width, s.Height)
		if err != nil {
			results = append(results, failed(spec, err))
			continue
		}
		results = append(results, p.processSpec(h, base, spec))
	}
	return results
}

// decode reads a source and applies EXIF orientation.
func (p *imageProcessor) decode(src Source) (*raster.Handle, error) {
	h, err := p.engine.Decode(src.Data)
	if err != nil {
		return nil, err
	}
	return p.engine.CorrectOrientation(h)
}

func failed(spec entity.OutputSpec, err error) entity.ConversionResult {
	return entity.ConversionResult{
		Name:            spec.Name,
		RequestedFormat: spec.Format,
		Success:         false,
		Error:           err.Error(),
		Err:             err,
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// baseName strips directories and extension and keeps a filesystem-safe stem.
func baseName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "image"
	}
	return name
}
