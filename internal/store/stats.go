package store

import (
	"context"

	"toolcheck/internal/model"
)

// DashboardStats are the aggregate counts backing the overview screen.
type DashboardStats struct {
	Templates        int64                         `json:"templates"`
	Toolkits         int64                         `json:"toolkits"`
	ToolkitsByStatus map[model.ToolkitStatus]int64 `json:"toolkits_by_status"`
	CheckIns         int64                         `json:"check_ins"`
}

// GetDashboardStats counts templates, toolkits per status and check-in
// records. Statuses with no toolkits are omitted from the map.
func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	out := &DashboardStats{ToolkitsByStatus: make(map[model.ToolkitStatus]int64)}

	if err := db.Model(&templateRow{}).Count(&out.Templates).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := db.Model(&toolkitRow{}).Count(&out.Toolkits).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := db.Model(&checkInRow{}).Count(&out.CheckIns).Error; err != nil {
		return nil, translateErr(err)
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Model(&toolkitRow{}).Select("status, count(*) as n").Group("status").Scan(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	for _, row := range rows {
		out.ToolkitsByStatus[model.ToolkitStatus(row.Status)] = row.N
	}
	return out, nil
}
