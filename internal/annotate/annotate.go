// Package annotate renders verification overlays onto analyzed images.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"

	"toolcheck/internal/model"
	"toolcheck/pkg/colorutil"
)

const (
	strokeWidth    = 3
	labelFontSize  = 20
	summaryBarH    = 36
	thumbnailWidth = 480
)

// Renderer draws slot outlines, labels and a summary strip over a working
// image. The zero value renders outlines only; configure a font to get
// labels and the summary text.
type Renderer struct {
	face font.Face
}

// NewRenderer builds a renderer. fontPath may be empty, in which case text
// is omitted and only the colored outlines are drawn.
func NewRenderer(fontPath string) (*Renderer, error) {
	r := &Renderer{}
	if fontPath == "" {
		return r, nil
	}

	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	r.face = truetype.NewFace(parsed, &truetype.Options{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return r, nil
}

// Render draws the verdict overlay and returns the annotated image.
// Verdict regions come from the matching tool definitions; verdicts whose
// tool id has no definition are skipped.
func (r *Renderer) Render(base image.Image, tools []model.ToolDefinition, verdicts []model.SlotVerdict, summary model.Summary, reg model.RegistrationInfo) image.Image {
	return r.draw(base, tools, verdicts, summary, reg).Image()
}

// RenderPNG draws the verdict overlay and encodes it as PNG.
func (r *Renderer) RenderPNG(base image.Image, tools []model.ToolDefinition, verdicts []model.SlotVerdict, summary model.Summary, reg model.RegistrationInfo) ([]byte, error) {
	dc := r.draw(base, tools, verdicts, summary, reg)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(base image.Image, tools []model.ToolDefinition, verdicts []model.SlotVerdict, summary model.Summary, reg model.RegistrationInfo) *gg.Context {
	dc := gg.NewContextForImage(base)
	if r.face != nil {
		dc.SetFontFace(r.face)
	}

	byID := make(map[string]model.ToolDefinition, len(tools))
	for _, tool := range tools {
		byID[tool.ID] = tool
	}

	for _, v := range verdicts {
		tool, ok := byID[v.ToolID]
		if !ok {
			continue
		}
		r.drawRegion(dc, tool.Region, v)
	}

	r.drawSummary(dc, summary, reg)
	return dc
}

func (r *Renderer) drawRegion(dc *gg.Context, region model.Region, v model.SlotVerdict) {
	col := statusColor(v.Status)

	switch region.Kind {
	case model.RegionPolygon:
		for i, p := range region.Polygon {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
	default:
		rect := region.Bounds()
		dc.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	}

	dc.SetColor(col)
	dc.SetLineWidth(strokeWidth)
	dc.Stroke()

	bounds := region.Bounds()

	// Status dot in the region corner; readable even without a font.
	dc.DrawCircle(bounds.X+9, bounds.Y+9, 5)
	dc.Fill()

	if r.face == nil {
		return
	}

	label := fmt.Sprintf("%s %.0f%%", v.Name, v.Confidence*100)
	tw, th := dc.MeasureString(label)

	// Label box sits just above the region, clamped to the image.
	lx := bounds.X
	ly := bounds.Y - th - 8
	if ly < float64(summaryBarH) {
		ly = bounds.Y + 4
	}

	dc.SetColor(colorutil.Darken(col, 0.35))
	dc.DrawRectangle(lx, ly, tw+8, th+6)
	dc.Fill()

	dc.SetColor(colorutil.White)
	dc.DrawString(label, lx+4, ly+th+1)
}

func (r *Renderer) drawSummary(dc *gg.Context, summary model.Summary, reg model.RegistrationInfo) {
	w := float64(dc.Width())

	dc.SetColor(colorutil.OverlayGrey)
	dc.DrawRectangle(0, 0, w, summaryBarH)
	dc.Fill()

	if r.face == nil {
		return
	}

	text := fmt.Sprintf("%d/%d present, %d missing, %d uncertain",
		summary.Present, summary.Total, summary.Missing, summary.Uncertain)
	if !reg.Applied {
		text += fmt.Sprintf("  [unaligned: %s]", reg.Reason)
	}

	dc.SetColor(colorutil.White)
	dc.DrawString(text, 10, summaryBarH-11)
}

// Thumbnail scales the image down to thumbnailWidth, preserving aspect
// ratio. Images already narrower are returned unchanged.
func Thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= thumbnailWidth {
		return img
	}

	h := b.Dy() * thumbnailWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ThumbnailPNG scales the image down and encodes it as PNG.
func ThumbnailPNG(img image.Image) ([]byte, error) {
	dc := gg.NewContextForImage(Thumbnail(img))
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func statusColor(s model.ToolStatus) color.RGBA {
	switch s {
	case model.ToolPresent:
		return colorutil.PresentGreen
	case model.ToolMissing:
		return colorutil.MissingRed
	default:
		return colorutil.UncertainOrange
	}
}
