package store

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"toolcheck/internal/model"
)

// ErrTemplateInUse is returned when deleting a template that still has
// toolkits bound to it.
var ErrTemplateInUse = fmt.Errorf("template has toolkits bound to it")

// CreateTemplate inserts a new template.
func (s *Store) CreateTemplate(ctx context.Context, t *model.Template) error {
	row, err := templateToRow(t)
	if err != nil {
		return err
	}
	return translateErr(s.db.WithContext(ctx).Create(row).Error)
}

// GetTemplate fetches one template by id.
func (s *Store) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	var row templateRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return rowToTemplate(&row)
}

// ListTemplates returns all templates ordered by creation time.
func (s *Store) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var rows []templateRow
	if err := s.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	out := make([]model.Template, 0, len(rows))
	for i := range rows {
		t, err := rowToTemplate(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// UpdateTemplate overwrites an existing template. ErrNotFound when the id
// does not exist.
func (s *Store) UpdateTemplate(ctx context.Context, t *model.Template) error {
	row, err := templateToRow(t)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&templateRow{}).Where("id = ?", t.ID).
		Select("*").Omit("id", "created_at", "ref_image_path").Updates(row)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTemplateReference records the uploaded reference image: its stored
// media path, dimensions and marker layout (nil when incomplete).
func (s *Store) SetTemplateReference(ctx context.Context, id, mediaPath string, width, height int, layout *model.MarkerLayout) error {
	// A nil layout must store SQL NULL, not the JSON literal "null".
	var markers datatypes.JSON
	if layout != nil {
		var err error
		if markers, err = toJSON(layout); err != nil {
			return err
		}
	}
	res := s.db.WithContext(ctx).Model(&templateRow{}).Where("id = ?", id).Updates(map[string]any{
		"ref_image_path": mediaPath,
		"image_width":    width,
		"image_height":   height,
		"markers":        markers,
	})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TemplateReferencePath returns the media path of the stored reference
// image, empty when none was uploaded.
func (s *Store) TemplateReferencePath(ctx context.Context, id string) (string, error) {
	var row templateRow
	if err := s.db.WithContext(ctx).Select("id", "ref_image_path").First(&row, "id = ?", id).Error; err != nil {
		return "", translateErr(err)
	}
	return row.RefImagePath, nil
}

// DeleteTemplate removes a template. Templates still referenced by a
// toolkit cannot be deleted.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&toolkitRow{}).Where("template_id = ?", id).Count(&count).Error; err != nil {
		return translateErr(err)
	}
	if count > 0 {
		return ErrTemplateInUse
	}

	res := s.db.WithContext(ctx).Delete(&templateRow{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
