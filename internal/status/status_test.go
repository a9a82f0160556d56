package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolcheck/internal/model"
)

func testToolkit(s model.ToolkitStatus) *model.Toolkit {
	return &model.Toolkit{
		ID:         "tk_01",
		TemplateID: "tpl_01",
		Name:       "field kit 1",
		Status:     s,
	}
}

func TestCheckInAllPresent(t *testing.T) {
	kit := testToolkit(model.StatusNeverChecked)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	verdicts := []model.SlotVerdict{
		{ToolID: "t_01", Name: "wrench", Status: model.ToolPresent, Confidence: 0.9},
		{ToolID: "t_02", Name: "driver", Status: model.ToolPresent, Confidence: 0.8},
	}

	rec := CheckIn(kit, verdicts, now)

	assert.Equal(t, model.StatusCheckedIn, kit.Status)
	require.NotNil(t, kit.LastCheckIn)
	assert.Equal(t, now, *kit.LastCheckIn)
	require.Len(t, kit.Snapshot, 2)
	for _, state := range kit.Snapshot {
		assert.Equal(t, model.ToolPresent, state.Status)
		require.NotNil(t, state.LastSeen)
		assert.Equal(t, now, *state.LastSeen)
	}

	assert.Equal(t, "tk_01", rec.ToolkitID)
	assert.Equal(t, "tpl_01", rec.TemplateID)
	assert.Equal(t, model.StatusCheckedIn, rec.Status)
	assert.Equal(t, model.Summary{Present: 2, Total: 2}, rec.Summary)
	assert.Contains(t, rec.ID, "ci_tk_01_20260314T093000_")
}

func TestCheckInAllPresentFromAnyState(t *testing.T) {
	now := time.Now()
	verdicts := []model.SlotVerdict{{ToolID: "t_01", Status: model.ToolPresent, Confidence: 0.95}}

	for _, from := range []model.ToolkitStatus{
		model.StatusNeverChecked, model.StatusCheckedIn, model.StatusCheckedOut, model.StatusIncomplete,
	} {
		kit := testToolkit(from)
		CheckIn(kit, verdicts, now)
		assert.Equal(t, model.StatusCheckedIn, kit.Status, "from %s", from)
	}
}

func TestCheckInIncomplete(t *testing.T) {
	now := time.Now()
	verdicts := []model.SlotVerdict{
		{ToolID: "t_01", Status: model.ToolPresent, Confidence: 0.9},
		{ToolID: "t_02", Status: model.ToolMissing, Confidence: 0.1},
		{ToolID: "t_03", Status: model.ToolUncertain, Confidence: 0.5},
	}

	tests := []struct {
		name string
		from model.ToolkitStatus
	}{
		{"from never_checked", model.StatusNeverChecked},
		{"from checked_in", model.StatusCheckedIn},
		{"from checked_out", model.StatusCheckedOut},
		{"from incomplete", model.StatusIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kit := testToolkit(tt.from)
			rec := CheckIn(kit, verdicts, now)
			assert.Equal(t, model.StatusIncomplete, kit.Status)
			assert.Equal(t, model.StatusIncomplete, rec.Status)
			assert.Equal(t, model.Summary{Present: 1, Missing: 1, Uncertain: 1, Total: 3}, rec.Summary)
		})
	}
}

func TestCheckInReplacesSnapshot(t *testing.T) {
	now := time.Now()
	kit := testToolkit(model.StatusIncomplete)
	kit.Snapshot = []model.SlotState{
		{ToolID: "t_old", Status: model.ToolMissing},
	}

	CheckIn(kit, []model.SlotVerdict{{ToolID: "t_01", Status: model.ToolPresent}}, now)

	require.Len(t, kit.Snapshot, 1)
	assert.Equal(t, "t_01", kit.Snapshot[0].ToolID)
}

func TestCheckInMissingToolHasNoLastSeen(t *testing.T) {
	kit := testToolkit(model.StatusNeverChecked)
	CheckIn(kit, []model.SlotVerdict{
		{ToolID: "t_01", Status: model.ToolMissing},
		{ToolID: "t_02", Status: model.ToolUncertain},
	}, time.Now())

	for _, state := range kit.Snapshot {
		assert.Nil(t, state.LastSeen, "tool %s", state.ToolID)
	}
}

func TestCheckOut(t *testing.T) {
	now := time.Now()

	tests := []struct {
		from    model.ToolkitStatus
		allowed bool
	}{
		{model.StatusCheckedIn, true},
		{model.StatusIncomplete, true},
		{model.StatusNeverChecked, false},
		{model.StatusCheckedOut, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			kit := testToolkit(tt.from)
			err := CheckOut(kit, now)

			if !tt.allowed {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, kit.Status)
				assert.Nil(t, kit.LastCheckOut)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCheckedOut, kit.Status)
			require.NotNil(t, kit.LastCheckOut)
			assert.Equal(t, now, *kit.LastCheckOut)
		})
	}
}

func TestRecordIDsAreUnique(t *testing.T) {
	now := time.Now()
	verdicts := []model.SlotVerdict{{ToolID: "t_01", Status: model.ToolPresent}}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		kit := testToolkit(model.StatusNeverChecked)
		rec := CheckIn(kit, verdicts, now)
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}
