// Package analyze runs the verification pipeline: decode, marker
// registration, per-slot signal extraction, classification and annotation.
package analyze

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"gocv.io/x/gocv"

	"toolcheck/internal/annotate"
	"toolcheck/internal/classify"
	"toolcheck/internal/config"
	"toolcheck/internal/logger"
	"toolcheck/internal/marker"
	"toolcheck/internal/model"
	"toolcheck/internal/registration"
	"toolcheck/internal/signal"
	"toolcheck/pkg/geometry"
)

// Result is the outcome of analyzing one captured toolkit photo.
type Result struct {
	Verdicts     []model.SlotVerdict
	Summary      model.Summary
	Registration model.RegistrationInfo
	// Annotated is the working image with the verdict overlay, in the
	// reference frame when registration applied.
	Annotated image.Image
}

// ReferenceInfo describes an uploaded template reference image.
type ReferenceInfo struct {
	Width   int
	Height  int
	Markers []marker.Marker
	// Layout is nil unless all four corner markers were located.
	Layout *model.MarkerLayout
}

// Pipeline analyzes captured toolkit photos against templates. It is safe
// for concurrent use; marker detection serializes on the single OpenCV
// detector it owns.
type Pipeline struct {
	mu       sync.Mutex
	detector *marker.Detector
	renderer *annotate.Renderer
	params   config.DetectionParams
	log      *logger.Logger
}

func (p *Pipeline) detect(img gocv.Mat) []marker.Marker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detector.Detect(img)
}

// NewPipeline assembles a pipeline from its stages.
func NewPipeline(detector *marker.Detector, renderer *annotate.Renderer, params config.DetectionParams, log *logger.Logger) *Pipeline {
	return &Pipeline{
		detector: detector,
		renderer: renderer,
		params:   params,
		log:      log,
	}
}

// Close releases the pipeline's OpenCV state.
func (p *Pipeline) Close() {
	p.detector.Close()
}

// Analyze verifies one captured photo against the template.
//
// Returns a ConfigurationError when the template is not analyzable (no
// tools, a tool without a usable region, no reference image) and a
// DecodeError when the upload is not an image. Registration problems never
// fail the call: the pipeline degrades to resolution-scaled regions and
// records why in Result.Registration.
func (p *Pipeline) Analyze(imageBytes []byte, tpl *model.Template) (*Result, error) {
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	captured, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer captured.Close()
	if captured.Empty() {
		return nil, &DecodeError{Err: fmt.Errorf("empty image")}
	}

	refSize := geometry.Size{Width: tpl.ImageWidth, Height: tpl.ImageHeight}
	capSize := geometry.Size{Width: captured.Cols(), Height: captured.Rows()}

	markers := p.detect(captured)
	reg := registration.Register(captured, markers, tpl.Markers, refSize)
	if reg.Applied {
		defer reg.Image.Close()
	}

	p.log.Debug("image registration",
		"template_id", tpl.ID,
		"markers_detected", reg.MarkersDetected,
		"applied", reg.Applied,
		"reason", reg.Reason,
	)

	working, err := matToImage(reg.Image)
	if err != nil {
		return nil, fmt.Errorf("convert working image: %w", err)
	}

	// In the registered frame template regions apply directly. Otherwise
	// regions are rescaled to the captured resolution, which is exact when
	// only the resolution differs and approximate under perspective.
	sx, sy := 1.0, 1.0
	if !reg.Applied {
		sx, sy = registration.ScaleFactors(capSize, refSize)
	}

	tools := make([]model.ToolDefinition, len(tpl.Tools))
	copy(tools, tpl.Tools)
	sort.Slice(tools, func(i, j int) bool { return tools[i].SlotIndex < tools[j].SlotIndex })

	params := p.params.Resolve(tpl)

	verdicts := make([]model.SlotVerdict, 0, len(tools))
	for i, tool := range tools {
		if !reg.Applied {
			tools[i].Region = tool.Region.Scale(sx, sy)
		}
		signals, ok := signal.Extract(working, tools[i].Region, params)
		verdicts = append(verdicts, classify.Slot(tool, signals, ok, params))
	}

	summary := classify.Summarize(verdicts)
	info := reg.Info()

	return &Result{
		Verdicts:     verdicts,
		Summary:      summary,
		Registration: info,
		Annotated:    p.renderer.Render(working, tools, verdicts, summary, info),
	}, nil
}

// InspectReference decodes a template reference image and locates its
// corner markers. An image without a complete marker set is still accepted;
// Layout stays nil and check-ins against the template run unregistered.
func (p *Pipeline) InspectReference(imageBytes []byte) (*ReferenceInfo, error) {
	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, &DecodeError{Err: fmt.Errorf("empty image")}
	}

	markers := p.detect(mat)
	info := &ReferenceInfo{
		Width:   mat.Cols(),
		Height:  mat.Rows(),
		Markers: markers,
	}
	if layout, ok := marker.Layout(markers); ok {
		info.Layout = layout
	}
	return info, nil
}

func validateTemplate(tpl *model.Template) error {
	if tpl == nil {
		return &ConfigurationError{Reason: "no template"}
	}
	if len(tpl.Tools) == 0 {
		return &ConfigurationError{Reason: "template defines no tools"}
	}
	if tpl.ImageWidth <= 0 || tpl.ImageHeight <= 0 {
		return &ConfigurationError{Reason: "template has no reference image"}
	}
	for _, tool := range tpl.Tools {
		if !tool.Region.Valid() {
			return &ConfigurationError{Reason: fmt.Sprintf("tool %q has no usable region", tool.ID)}
		}
	}
	return nil
}

// matToImage converts the working Mat to an image.Image. ToImage handles
// the BGR to RGBA channel swap itself.
func matToImage(mat gocv.Mat) (image.Image, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}
	return img, nil
}
