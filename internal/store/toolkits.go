package store

import (
	"context"

	"gorm.io/gorm"

	"toolcheck/internal/model"
)

// CreateToolkit inserts a new toolkit.
func (s *Store) CreateToolkit(ctx context.Context, k *model.Toolkit) error {
	row, err := toolkitToRow(k)
	if err != nil {
		return err
	}
	return translateErr(s.db.WithContext(ctx).Create(row).Error)
}

// GetToolkit fetches one toolkit by id.
func (s *Store) GetToolkit(ctx context.Context, id string) (*model.Toolkit, error) {
	var row toolkitRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return rowToToolkit(&row)
}

// ListToolkits returns all toolkits, optionally filtered by template.
func (s *Store) ListToolkits(ctx context.Context, templateID string) ([]model.Toolkit, error) {
	q := s.db.WithContext(ctx).Order("created_at")
	if templateID != "" {
		q = q.Where("template_id = ?", templateID)
	}
	var rows []toolkitRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	out := make([]model.Toolkit, 0, len(rows))
	for i := range rows {
		k, err := rowToToolkit(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *k)
	}
	return out, nil
}

// UpdateToolkit overwrites an existing toolkit. ErrNotFound when the id
// does not exist.
func (s *Store) UpdateToolkit(ctx context.Context, k *model.Toolkit) error {
	row, err := toolkitToRow(k)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&toolkitRow{}).Where("id = ?", k.ID).
		Select("*").Omit("id", "created_at").Updates(row)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteToolkit removes a toolkit along with its check-in history.
func (s *Store) DeleteToolkit(ctx context.Context, id string) error {
	return translateErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&toolkitRow{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&checkInRow{}, "toolkit_id = ?", id).Error
	}))
}

// SaveCheckIn persists the result of a check-in atomically: the updated
// toolkit state and the new history record commit or fail together.
func (s *Store) SaveCheckIn(ctx context.Context, k *model.Toolkit, rec *model.CheckInRecord) error {
	kitRow, err := toolkitToRow(k)
	if err != nil {
		return err
	}
	recRow, err := checkInToRow(rec)
	if err != nil {
		return err
	}

	return translateErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&toolkitRow{}).Where("id = ?", k.ID).
			Select("*").Omit("id", "created_at").Updates(kitRow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(recRow).Error
	}))
}
