package annotate

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolcheck/internal/model"
)

func baseImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestRenderKeepsDimensions(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	tools := []model.ToolDefinition{
		{ID: "t1", Name: "wrench", SlotIndex: 1, Region: model.RectRegion(10, 50, 100, 60)},
	}
	verdicts := []model.SlotVerdict{
		{ToolID: "t1", Name: "wrench", SlotIndex: 1, Status: model.ToolPresent, Confidence: 0.9},
	}

	out := r.Render(baseImage(640, 480), tools, verdicts, model.Summary{Present: 1, Total: 1}, model.RegistrationInfo{Applied: true})
	assert.Equal(t, 640, out.Bounds().Dx())
	assert.Equal(t, 480, out.Bounds().Dy())
}

func TestRenderSkipsUnknownToolIDs(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	verdicts := []model.SlotVerdict{
		{ToolID: "nope", Status: model.ToolMissing},
	}
	// No matching tool definition: still renders, just without that outline.
	out := r.Render(baseImage(100, 100), nil, verdicts, model.Summary{}, model.RegistrationInfo{})
	assert.NotNil(t, out)
}

func TestRenderPNGDecodes(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	raw, err := r.RenderPNG(baseImage(320, 240), nil, nil, model.Summary{}, model.RegistrationInfo{})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
}

func TestNewRendererBadFontPath(t *testing.T) {
	_, err := NewRenderer("/does/not/exist.ttf")
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	thumb := Thumbnail(baseImage(1920, 1080))
	assert.Equal(t, 480, thumb.Bounds().Dx())
	assert.Equal(t, 270, thumb.Bounds().Dy())

	small := baseImage(200, 100)
	assert.Equal(t, small.Bounds(), Thumbnail(small).Bounds(), "narrow images pass through")
}

func TestThumbnailPNG(t *testing.T) {
	raw, err := ThumbnailPNG(baseImage(960, 720))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 480, decoded.Bounds().Dx())
}
