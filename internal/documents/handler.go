package documents

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.remove)
	rg.GET("/documents/:id/image", h.image)
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, ToResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch document")
		return
	}
	c.Set("documentId", doc.ID)
	respond.OK(c, ToResponse(doc))
}

type updateRequest struct {
	OCRText       *string `json:"ocrText"`
	AICleanedText *string `json:"aiCleanedText"`
}

func (h *Handler) update(c *gin.Context) {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	var req updateRequest
	if err := decoder.Decode(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.OCRText == nil && req.AICleanedText == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no editable fields provided", nil)
		return
	}

	doc, err := h.Svc.UpdateTexts(c.Request.Context(), c.Param("id"), TextUpdate{
		OCRText:       req.OCRText,
		AICleanedText: req.AICleanedText,
	})
	if err != nil {
		h.fail(c, err, "failed to update document")
		return
	}
	c.Set("documentId", doc.ID)
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete document")
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) image(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch document")
		return
	}

	body, err := h.Svc.Store.Open(c.Request.Context(), doc.StorageKey)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "stored file not found", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Type", doc.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
