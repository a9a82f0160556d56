package store

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"toolcheck/internal/model"
)

// Row types mirror the domain structs with nested documents stored as JSON
// columns. Conversion goes through encoding/json so the wire and storage
// forms of the nested types stay identical.

type templateRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	FoamColor    string
	ImageWidth   int
	ImageHeight  int
	RefImagePath string
	Tools        datatypes.JSON
	Markers      datatypes.JSON
	Thresholds   datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (templateRow) TableName() string { return "templates" }

type toolkitRow struct {
	ID           string `gorm:"primaryKey"`
	TemplateID   string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Description  string
	Status       string `gorm:"not null"`
	Location     string
	Snapshot     datatypes.JSON
	LastCheckIn  *time.Time
	LastCheckOut *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (toolkitRow) TableName() string { return "toolkits" }

type checkInRow struct {
	ID           string    `gorm:"primaryKey"`
	ToolkitID    string    `gorm:"index;not null"`
	TemplateID   string    `gorm:"not null"`
	Timestamp    time.Time `gorm:"index"`
	Status       string    `gorm:"not null"`
	Verdicts     datatypes.JSON
	Summary      datatypes.JSON
	Registration datatypes.JSON
	Thumbnail    string
	Notes        string
	Actor        string
}

func (checkInRow) TableName() string { return "checkins" }

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal column: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func fromJSON(raw datatypes.JSON, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal column: %w", err)
	}
	return nil
}

func templateToRow(t *model.Template) (*templateRow, error) {
	tools, err := toJSON(t.Tools)
	if err != nil {
		return nil, err
	}
	thresholds, err := toJSON(t.Thresholds)
	if err != nil {
		return nil, err
	}
	row := &templateRow{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		FoamColor:   string(t.FoamColor),
		ImageWidth:  t.ImageWidth,
		ImageHeight: t.ImageHeight,
		Tools:       tools,
		Thresholds:  thresholds,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Markers != nil {
		if row.Markers, err = toJSON(t.Markers); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func rowToTemplate(row *templateRow) (*model.Template, error) {
	t := &model.Template{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		FoamColor:   model.FoamColor(row.FoamColor),
		ImageWidth:  row.ImageWidth,
		ImageHeight: row.ImageHeight,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := fromJSON(row.Tools, &t.Tools); err != nil {
		return nil, err
	}
	if err := fromJSON(row.Thresholds, &t.Thresholds); err != nil {
		return nil, err
	}
	if len(row.Markers) > 0 && string(row.Markers) != "null" {
		t.Markers = &model.MarkerLayout{}
		if err := fromJSON(row.Markers, t.Markers); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func toolkitToRow(k *model.Toolkit) (*toolkitRow, error) {
	snapshot, err := toJSON(k.Snapshot)
	if err != nil {
		return nil, err
	}
	return &toolkitRow{
		ID:           k.ID,
		TemplateID:   k.TemplateID,
		Name:         k.Name,
		Description:  k.Description,
		Status:       string(k.Status),
		Location:     k.Location,
		Snapshot:     snapshot,
		LastCheckIn:  k.LastCheckIn,
		LastCheckOut: k.LastCheckOut,
		CreatedAt:    k.CreatedAt,
		UpdatedAt:    k.UpdatedAt,
	}, nil
}

func rowToToolkit(row *toolkitRow) (*model.Toolkit, error) {
	k := &model.Toolkit{
		ID:           row.ID,
		TemplateID:   row.TemplateID,
		Name:         row.Name,
		Description:  row.Description,
		Status:       model.ToolkitStatus(row.Status),
		Location:     row.Location,
		LastCheckIn:  row.LastCheckIn,
		LastCheckOut: row.LastCheckOut,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if err := fromJSON(row.Snapshot, &k.Snapshot); err != nil {
		return nil, err
	}
	return k, nil
}

func checkInToRow(r *model.CheckInRecord) (*checkInRow, error) {
	verdicts, err := toJSON(r.Verdicts)
	if err != nil {
		return nil, err
	}
	summary, err := toJSON(r.Summary)
	if err != nil {
		return nil, err
	}
	registration, err := toJSON(r.Registration)
	if err != nil {
		return nil, err
	}
	return &checkInRow{
		ID:           r.ID,
		ToolkitID:    r.ToolkitID,
		TemplateID:   r.TemplateID,
		Timestamp:    r.Timestamp,
		Status:       string(r.Status),
		Verdicts:     verdicts,
		Summary:      summary,
		Registration: registration,
		Thumbnail:    r.Thumbnail,
		Notes:        r.Notes,
		Actor:        r.Actor,
	}, nil
}

func rowToCheckIn(row *checkInRow) (*model.CheckInRecord, error) {
	r := &model.CheckInRecord{
		ID:         row.ID,
		ToolkitID:  row.ToolkitID,
		TemplateID: row.TemplateID,
		Timestamp:  row.Timestamp,
		Status:     model.ToolkitStatus(row.Status),
		Thumbnail:  row.Thumbnail,
		Notes:      row.Notes,
		Actor:      row.Actor,
	}
	if err := fromJSON(row.Verdicts, &r.Verdicts); err != nil {
		return nil, err
	}
	if err := fromJSON(row.Summary, &r.Summary); err != nil {
		return nil, err
	}
	if err := fromJSON(row.Registration, &r.Registration); err != nil {
		return nil, err
	}
	return r, nil
}
