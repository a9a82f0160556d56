package store

import (
	"context"

	"toolcheck/internal/model"
)

// GetCheckIn fetches one history record by id.
func (s *Store) GetCheckIn(ctx context.Context, id string) (*model.CheckInRecord, error) {
	var row checkInRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return rowToCheckIn(&row)
}

// ListCheckIns returns a toolkit's history, newest first. limit <= 0 means
// no limit.
func (s *Store) ListCheckIns(ctx context.Context, toolkitID string, limit int) ([]model.CheckInRecord, error) {
	q := s.db.WithContext(ctx).Where("toolkit_id = ?", toolkitID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []checkInRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	out := make([]model.CheckInRecord, 0, len(rows))
	for i := range rows {
		rec, err := rowToCheckIn(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}
