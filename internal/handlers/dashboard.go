package handlers

import (
	"github.com/gin-gonic/gin"

	"toolcheck/internal/logger"
	"toolcheck/internal/store"
)

// DashboardHandler serves the aggregate counts for the overview screen.
type DashboardHandler struct {
	log   *logger.Logger
	store *store.Store
}

// NewDashboardHandler wires the dashboard endpoints.
func NewDashboardHandler(log *logger.Logger, st *store.Store) *DashboardHandler {
	return &DashboardHandler{
		log:   log.With("handler", "DashboardHandler"),
		store: st,
	}
}

// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.store.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, stats)
}
