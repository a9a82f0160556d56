// Package status implements the toolkit lifecycle transitions.
//
// A toolkit moves between never_checked, checked_in, checked_out and
// incomplete. Check-in is legal from every state and the resulting state
// depends only on the verdicts. Check-out requires a prior verification:
// it is legal from checked_in and incomplete only.
package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolcheck/internal/classify"
	"toolcheck/internal/model"
)

// ErrInvalidTransition is returned for a check-out attempt from a state
// without a prior verification.
var ErrInvalidTransition = errors.New("invalid toolkit status transition")

// CheckIn applies a verification result to the toolkit and produces the
// history record. The toolkit's snapshot is replaced wholesale, its status
// becomes checked_in when every slot is present and incomplete otherwise,
// and LastCheckIn is stamped. The record's Registration, Thumbnail, Notes
// and Actor fields are filled in by the caller.
func CheckIn(kit *model.Toolkit, verdicts []model.SlotVerdict, now time.Time) model.CheckInRecord {
	summary := classify.Summarize(verdicts)

	next := model.StatusIncomplete
	if summary.Complete() {
		next = model.StatusCheckedIn
	}

	snapshot := make([]model.SlotState, 0, len(verdicts))
	for _, v := range verdicts {
		state := model.SlotState{
			ToolID:     v.ToolID,
			Name:       v.Name,
			Status:     v.Status,
			Confidence: v.Confidence,
		}
		if v.Status == model.ToolPresent {
			seen := now
			state.LastSeen = &seen
		}
		snapshot = append(snapshot, state)
	}

	kit.Status = next
	kit.Snapshot = snapshot
	checkedIn := now
	kit.LastCheckIn = &checkedIn
	kit.UpdatedAt = now

	return model.CheckInRecord{
		ID:         newRecordID(kit.ID, now),
		ToolkitID:  kit.ID,
		TemplateID: kit.TemplateID,
		Timestamp:  now.UTC(),
		Status:     next,
		Verdicts:   verdicts,
		Summary:    summary,
	}
}

// CheckOut transitions a verified toolkit to checked_out. Attempting to
// check out a toolkit that is never_checked or already checked_out returns
// ErrInvalidTransition and leaves the toolkit unmodified.
func CheckOut(kit *model.Toolkit, now time.Time) error {
	switch kit.Status {
	case model.StatusCheckedIn, model.StatusIncomplete:
	default:
		return fmt.Errorf("%w: cannot check out from %q", ErrInvalidTransition, kit.Status)
	}

	kit.Status = model.StatusCheckedOut
	checkedOut := now
	kit.LastCheckOut = &checkedOut
	kit.UpdatedAt = now
	return nil
}

// newRecordID builds a sortable, collision-safe history id from the toolkit
// id, a UTC timestamp and a short random suffix.
func newRecordID(toolkitID string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ci_%s_%s_%s", toolkitID, now.UTC().Format("20060102T150405"), suffix)
}
