package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"toolcheck/internal/analyze"
	"toolcheck/internal/annotate"
	"toolcheck/internal/logger"
	"toolcheck/internal/model"
	"toolcheck/internal/status"
	"toolcheck/internal/store"
)

// ToolkitHandler serves toolkit CRUD and the check-in/check-out flow.
//
// Check-in and check-out serialize per toolkit id: two concurrent check-ins
// of the same toolkit run one after the other, while different toolkits
// proceed in parallel. Lock entries are dropped when a toolkit is deleted
// or an id turns out not to exist, so the map tracks live toolkits only.
type ToolkitHandler struct {
	log      *logger.Logger
	store    *store.Store
	media    *store.Media
	pipeline *analyze.Pipeline

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewToolkitHandler wires the toolkit endpoints.
func NewToolkitHandler(log *logger.Logger, st *store.Store, media *store.Media, pipeline *analyze.Pipeline) *ToolkitHandler {
	return &ToolkitHandler{
		log:      log.With("handler", "ToolkitHandler"),
		store:    st,
		media:    media,
		pipeline: pipeline,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (h *ToolkitHandler) lock(toolkitID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[toolkitID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[toolkitID] = l
	}
	return l
}

func (h *ToolkitHandler) forget(toolkitID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.locks, toolkitID)
}

type toolkitRequest struct {
	TemplateID  string `json:"template_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type toolkitUpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// POST /api/toolkits
//
// The snapshot is seeded from the template with every slot unknown.
func (h *ToolkitHandler) Create(c *gin.Context) {
	var req toolkitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := c.Request.Context()
	tpl, err := h.store.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	now := time.Now().UTC()
	kit := &model.Toolkit{
		ID:          newID("tk"),
		TemplateID:  tpl.ID,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.StatusNeverChecked,
		Location:    req.Location,
		Snapshot:    seedSnapshot(tpl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateToolkit(ctx, kit); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kit)
}

func seedSnapshot(tpl *model.Template) []model.SlotState {
	snapshot := make([]model.SlotState, 0, len(tpl.Tools))
	for _, tool := range tpl.Tools {
		snapshot = append(snapshot, model.SlotState{
			ToolID: tool.ID,
			Name:   tool.Name,
			Status: model.ToolUnknown,
		})
	}
	return snapshot
}

// GET /api/toolkits
func (h *ToolkitHandler) List(c *gin.Context) {
	kits, err := h.store.ListToolkits(c.Request.Context(), c.Query("template_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"toolkits": kits})
}

// GET /api/toolkits/:id
func (h *ToolkitHandler) Get(c *gin.Context) {
	kit, err := h.store.GetToolkit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, kit)
}

// PUT /api/toolkits/:id
//
// Edits the descriptive fields only. Status, snapshot and the template
// binding change through check-in and check-out.
func (h *ToolkitHandler) Update(c *gin.Context) {
	var req toolkitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := c.Request.Context()
	kit, err := h.store.GetToolkit(ctx, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	kit.Name = req.Name
	kit.Description = req.Description
	kit.Location = req.Location
	kit.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateToolkit(ctx, kit); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, kit)
}

// DELETE /api/toolkits/:id
func (h *ToolkitHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteToolkit(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	h.forget(id)
	c.Status(http.StatusNoContent)
}

// POST /api/toolkits/:id/checkin
//
// Multipart form: "image" (the captured photo), optional "notes" and
// "actor" fields. Runs the full pipeline, applies the status transition
// and persists toolkit plus history record atomically.
func (h *ToolkitHandler) CheckIn(c *gin.Context) {
	id := c.Param("id")
	l := h.lock(id)
	l.Lock()
	defer l.Unlock()

	ctx := c.Request.Context()
	kit, err := h.store.GetToolkit(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.forget(id)
		}
		respondDomainError(c, err)
		return
	}
	tpl, err := h.store.GetTemplate(ctx, kit.TemplateID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	imageBytes, err := readUpload(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	res, err := h.pipeline.Analyze(imageBytes, tpl)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	record := status.CheckIn(kit, res.Verdicts, time.Now().UTC())
	record.Registration = res.Registration
	record.Notes = c.PostForm("notes")
	record.Actor = c.PostForm("actor")

	if thumb, err := annotate.ThumbnailPNG(res.Annotated); err != nil {
		h.log.Warn("thumbnail render failed", "toolkit_id", id, "error", err)
	} else if path, err := h.media.SaveThumbnail(record.ID, thumb); err != nil {
		h.log.Warn("thumbnail save failed", "toolkit_id", id, "error", err)
	} else {
		record.Thumbnail = path
	}

	if err := h.store.SaveCheckIn(ctx, kit, &record); err != nil {
		respondDomainError(c, err)
		return
	}

	h.log.Info("toolkit checked in",
		"toolkit_id", id,
		"status", kit.Status,
		"present", record.Summary.Present,
		"missing", record.Summary.Missing,
		"uncertain", record.Summary.Uncertain,
		"registered", record.Registration.Applied,
	)

	RespondOK(c, gin.H{
		"toolkit": kit,
		"record":  record,
	})
}

type checkOutRequest struct {
	Location string `json:"location"`
}

// POST /api/toolkits/:id/checkout
func (h *ToolkitHandler) CheckOut(c *gin.Context) {
	id := c.Param("id")
	l := h.lock(id)
	l.Lock()
	defer l.Unlock()

	var req checkOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
	}

	ctx := c.Request.Context()
	kit, err := h.store.GetToolkit(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.forget(id)
		}
		respondDomainError(c, err)
		return
	}

	if err := status.CheckOut(kit, time.Now().UTC()); err != nil {
		respondDomainError(c, err)
		return
	}
	if req.Location != "" {
		kit.Location = req.Location
	}

	if err := h.store.UpdateToolkit(ctx, kit); err != nil {
		respondDomainError(c, err)
		return
	}

	h.log.Info("toolkit checked out", "toolkit_id", id, "location", kit.Location)
	RespondOK(c, kit)
}

// GET /api/toolkits/:id/history?limit=N
func (h *ToolkitHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.store.GetToolkit(ctx, id); err != nil {
		respondDomainError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		limit = n
	}

	records, err := h.store.ListCheckIns(ctx, id, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": records})
}
