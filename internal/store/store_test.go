package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolcheck/internal/logger"
	"toolcheck/internal/model"
	"toolcheck/pkg/geometry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTemplate(id string) *model.Template {
	now := time.Now().UTC().Truncate(time.Second)
	saturation := 30
	return &model.Template{
		ID:          id,
		Name:        "socket set",
		FoamColor:   model.FoamBlack,
		ImageWidth:  1280,
		ImageHeight: 960,
		Tools: []model.ToolDefinition{
			{ID: "tool_a", Name: "ratchet", SlotIndex: 1, Region: model.RectRegion(100, 100, 200, 80)},
			{ID: "tool_b", Name: "extension bar", SlotIndex: 2, Region: model.PolygonRegion([]geometry.Point2D{
				{X: 400, Y: 100}, {X: 600, Y: 120}, {X: 580, Y: 300}, {X: 410, Y: 280},
			})},
		},
		Markers: &model.MarkerLayout{
			TopLeft:     geometry.Point2D{X: 40, Y: 40},
			TopRight:    geometry.Point2D{X: 1240, Y: 40},
			BottomRight: geometry.Point2D{X: 1240, Y: 920},
			BottomLeft:  geometry.Point2D{X: 40, Y: 920},
		},
		Thresholds: model.Thresholds{Saturation: &saturation},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tpl := sampleTemplate("tpl_01")
	require.NoError(t, s.CreateTemplate(ctx, tpl))

	got, err := s.GetTemplate(ctx, "tpl_01")
	require.NoError(t, err)

	assert.Equal(t, tpl.Name, got.Name)
	assert.Equal(t, tpl.FoamColor, got.FoamColor)
	assert.Equal(t, tpl.Tools[0], got.Tools[0])
	require.NotNil(t, got.Markers)
	assert.Equal(t, *tpl.Markers, *got.Markers)
	require.NotNil(t, got.Thresholds.Saturation)
	assert.Equal(t, 30, *got.Thresholds.Saturation)
	assert.Nil(t, got.Thresholds.Brightness)
}

func TestGetTemplateNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetTemplate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTemplatePreservesReference(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tpl := sampleTemplate("tpl_01")
	require.NoError(t, s.CreateTemplate(ctx, tpl))
	require.NoError(t, s.SetTemplateReference(ctx, "tpl_01", "templates/tpl_01/reference", 1280, 960, tpl.Markers))

	tpl.Name = "socket set v2"
	require.NoError(t, s.UpdateTemplate(ctx, tpl))

	path, err := s.TemplateReferencePath(ctx, "tpl_01")
	require.NoError(t, err)
	assert.Equal(t, "templates/tpl_01/reference", path)

	got, err := s.GetTemplate(ctx, "tpl_01")
	require.NoError(t, err)
	assert.Equal(t, "socket set v2", got.Name)
}

func TestDeleteTemplateInUse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, sampleTemplate("tpl_01")))
	require.NoError(t, s.CreateToolkit(ctx, &model.Toolkit{
		ID:         "tk_01",
		TemplateID: "tpl_01",
		Name:       "kit",
		Status:     model.StatusNeverChecked,
	}))

	assert.ErrorIs(t, s.DeleteTemplate(ctx, "tpl_01"), ErrTemplateInUse)

	require.NoError(t, s.DeleteToolkit(ctx, "tk_01"))
	require.NoError(t, s.DeleteTemplate(ctx, "tpl_01"))
	assert.ErrorIs(t, s.DeleteTemplate(ctx, "tpl_01"), ErrNotFound)
}

func TestGetDashboardStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Templates)
	assert.Zero(t, empty.Toolkits)
	assert.Zero(t, empty.CheckIns)
	assert.Empty(t, empty.ToolkitsByStatus)

	require.NoError(t, s.CreateTemplate(ctx, sampleTemplate("tpl_01")))
	for i, st := range []model.ToolkitStatus{
		model.StatusNeverChecked, model.StatusNeverChecked, model.StatusCheckedOut,
	} {
		require.NoError(t, s.CreateToolkit(ctx, &model.Toolkit{
			ID:         "tk_0" + string(rune('1'+i)),
			TemplateID: "tpl_01",
			Name:       "kit",
			Status:     st,
		}))
	}

	stats, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Templates)
	assert.Equal(t, int64(3), stats.Toolkits)
	assert.Equal(t, int64(2), stats.ToolkitsByStatus[model.StatusNeverChecked])
	assert.Equal(t, int64(1), stats.ToolkitsByStatus[model.StatusCheckedOut])
	assert.NotContains(t, stats.ToolkitsByStatus, model.StatusCheckedIn)
}

func TestSaveCheckInAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.CreateTemplate(ctx, sampleTemplate("tpl_01")))
	kit := &model.Toolkit{
		ID:         "tk_01",
		TemplateID: "tpl_01",
		Name:       "kit",
		Status:     model.StatusNeverChecked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateToolkit(ctx, kit))

	kit.Status = model.StatusCheckedIn
	kit.LastCheckIn = &now
	kit.Snapshot = []model.SlotState{
		{ToolID: "tool_a", Name: "ratchet", Status: model.ToolPresent, Confidence: 0.92, LastSeen: &now},
	}
	rec := &model.CheckInRecord{
		ID:         "ci_tk_01_x",
		ToolkitID:  "tk_01",
		TemplateID: "tpl_01",
		Timestamp:  now,
		Status:     model.StatusCheckedIn,
		Verdicts: []model.SlotVerdict{
			{ToolID: "tool_a", Name: "ratchet", SlotIndex: 1, Status: model.ToolPresent, Confidence: 0.92},
		},
		Summary:      model.Summary{Present: 1, Total: 1},
		Registration: model.RegistrationInfo{MarkersDetected: 4, MarkersExpected: 4, Applied: true},
	}
	require.NoError(t, s.SaveCheckIn(ctx, kit, rec))

	gotKit, err := s.GetToolkit(ctx, "tk_01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCheckedIn, gotKit.Status)
	require.Len(t, gotKit.Snapshot, 1)
	assert.Equal(t, 0.92, gotKit.Snapshot[0].Confidence)

	gotRec, err := s.GetCheckIn(ctx, "ci_tk_01_x")
	require.NoError(t, err)
	assert.Equal(t, rec.Summary, gotRec.Summary)
	assert.True(t, gotRec.Registration.Applied)

	// Saving against a missing toolkit must not leave an orphan record.
	orphan := *rec
	orphan.ID = "ci_orphan"
	orphan.ToolkitID = "tk_gone"
	missingKit := *kit
	missingKit.ID = "tk_gone"
	assert.ErrorIs(t, s.SaveCheckIn(ctx, &missingKit, &orphan), ErrNotFound)
	_, err = s.GetCheckIn(ctx, "ci_orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateToolkit(ctx, &model.Toolkit{
		ID: "tk_01", TemplateID: "tpl_01", Name: "kit", Status: model.StatusNeverChecked,
	}))

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	kit, err := s.GetToolkit(ctx, "tk_01")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		rec := &model.CheckInRecord{
			ID:        "ci_" + string(rune('a'+i)),
			ToolkitID: "tk_01",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Status:    model.StatusCheckedIn,
		}
		require.NoError(t, s.SaveCheckIn(ctx, kit, rec))
	}

	records, err := s.ListCheckIns(ctx, "tk_01", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "ci_c", records[0].ID, "newest first")
	assert.Equal(t, "ci_a", records[2].ID)

	limited, err := s.ListCheckIns(ctx, "tk_01", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteToolkitRemovesHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	kit := &model.Toolkit{ID: "tk_01", TemplateID: "tpl_01", Name: "kit", Status: model.StatusNeverChecked}
	require.NoError(t, s.CreateToolkit(ctx, kit))
	require.NoError(t, s.SaveCheckIn(ctx, kit, &model.CheckInRecord{
		ID: "ci_a", ToolkitID: "tk_01", Timestamp: time.Now().UTC(), Status: model.StatusIncomplete,
	}))

	require.NoError(t, s.DeleteToolkit(ctx, "tk_01"))

	_, err := s.GetToolkit(ctx, "tk_01")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCheckIn(ctx, "ci_a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMediaPaths(t *testing.T) {
	media := NewMedia(t.TempDir())

	path, err := media.SaveTemplateImage("tpl_01", []byte("image-bytes"))
	require.NoError(t, err)

	data, err := media.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	_, err = media.Read("templates/tpl_02/reference")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = media.Read("../outside")
	assert.Error(t, err)
}
