package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"toolcheck/internal/analyze"
	"toolcheck/internal/logger"
	"toolcheck/internal/model"
	"toolcheck/internal/store"
)

// TemplateHandler serves template CRUD and reference image management.
type TemplateHandler struct {
	log      *logger.Logger
	store    *store.Store
	media    *store.Media
	pipeline *analyze.Pipeline
}

// NewTemplateHandler wires the template endpoints.
func NewTemplateHandler(log *logger.Logger, st *store.Store, media *store.Media, pipeline *analyze.Pipeline) *TemplateHandler {
	return &TemplateHandler{
		log:      log.With("handler", "TemplateHandler"),
		store:    st,
		media:    media,
		pipeline: pipeline,
	}
}

type templateRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	FoamColor   model.FoamColor        `json:"foam_color"`
	Tools       []model.ToolDefinition `json:"tools"`
	Thresholds  model.Thresholds       `json:"thresholds"`
}

// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	now := time.Now().UTC()
	tpl := &model.Template{
		ID:          newID("tpl"),
		Name:        req.Name,
		Description: req.Description,
		FoamColor:   req.FoamColor,
		Tools:       req.Tools,
		Thresholds:  req.Thresholds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if tpl.FoamColor == "" {
		tpl.FoamColor = model.FoamDarkGrey
	}
	for i := range tpl.Tools {
		if tpl.Tools[i].ID == "" {
			tpl.Tools[i].ID = newID("tool")
		}
	}

	if err := h.store.CreateTemplate(c.Request.Context(), tpl); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.store.ListTemplates(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"templates": templates})
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.store.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, tpl)
}

// PUT /api/templates/:id
//
// Layout edits keep the stored reference image and marker layout; only the
// fields carried in the request body change.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := c.Request.Context()
	tpl, err := h.store.GetTemplate(ctx, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	tpl.Name = req.Name
	tpl.Description = req.Description
	if req.FoamColor != "" {
		tpl.FoamColor = req.FoamColor
	}
	tpl.Tools = req.Tools
	tpl.Thresholds = req.Thresholds
	tpl.UpdatedAt = time.Now().UTC()
	for i := range tpl.Tools {
		if tpl.Tools[i].ID == "" {
			tpl.Tools[i].ID = newID("tool")
		}
	}

	if err := h.store.UpdateTemplate(ctx, tpl); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, tpl)
}

// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	if err := h.media.RemoveTemplateImage(id); err != nil {
		h.log.Warn("failed to remove template media", "template_id", id, "error", err)
	}
	c.Status(http.StatusNoContent)
}

// POST /api/templates/:id/image
//
// Stores the reference photo, re-runs marker detection on it and persists
// the detected layout with the image dimensions. An incomplete marker set
// is accepted; check-ins then run without registration.
func (h *TemplateHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.store.GetTemplate(ctx, id); err != nil {
		respondDomainError(c, err)
		return
	}

	data, err := readUpload(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	info, err := h.pipeline.InspectReference(data)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	mediaPath, err := h.media.SaveTemplateImage(id, data)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := h.store.SetTemplateReference(ctx, id, mediaPath, info.Width, info.Height, info.Layout); err != nil {
		respondDomainError(c, err)
		return
	}

	h.log.Info("reference image stored",
		"template_id", id,
		"width", info.Width,
		"height", info.Height,
		"markers", len(info.Markers),
	)

	RespondOK(c, gin.H{
		"image_width":  info.Width,
		"image_height": info.Height,
		"markers":      info.Markers,
		"layout":       info.Layout,
	})
}

// GET /api/templates/:id/image
func (h *TemplateHandler) GetImage(c *gin.Context) {
	ctx := c.Request.Context()
	path, err := h.store.TemplateReferencePath(ctx, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if path == "" {
		RespondError(c, http.StatusNotFound, "not_found", store.ErrNotFound)
		return
	}
	data, err := h.media.Read(path)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// GET /api/templates/:id/has-image
//
// Cheap existence probe for authoring tools that decide whether to offer
// an upload or a re-detect action.
func (h *TemplateHandler) HasImage(c *gin.Context) {
	path, err := h.store.TemplateReferencePath(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"has_image": path != ""})
}

// GET /api/templates/:id/markers
//
// Re-runs marker detection on the stored reference image. 404 until an
// image has been uploaded.
func (h *TemplateHandler) StoredMarkers(c *gin.Context) {
	ctx := c.Request.Context()
	path, err := h.store.TemplateReferencePath(ctx, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if path == "" {
		RespondError(c, http.StatusNotFound, "not_found", store.ErrNotFound)
		return
	}

	data, err := h.media.Read(path)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	info, err := h.pipeline.InspectReference(data)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"markers":  info.Markers,
		"layout":   info.Layout,
		"complete": info.Layout != nil,
	})
}

// POST /api/templates/:id/markers/preview
//
// Runs marker detection on an uploaded image without storing anything.
// Authoring tools use it to show marker placement live.
func (h *TemplateHandler) PreviewMarkers(c *gin.Context) {
	data, err := readUpload(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	info, err := h.pipeline.InspectReference(data)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"image_width":  info.Width,
		"image_height": info.Height,
		"markers":      info.Markers,
		"layout":       info.Layout,
		"complete":     info.Layout != nil,
	})
}
