package notesets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/documents"
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

// RegisterRoutes attaches note set routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notesets", h.list)
	rg.GET("/notesets/:id", h.get)
	rg.POST("/notesets", h.create)
	rg.PUT("/notesets/:id", h.update)
	rg.POST("/notesets/:id/documents", h.appendDocument)
	rg.DELETE("/notesets/:id/documents/:docId", h.removeDocument)
	rg.DELETE("/notesets/:id", h.remove)
}

type createRequest struct {
	Name        string   `json:"name"`
	DocumentIDs []string `json:"documentIds"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if !h.bind(c, &req) {
		return
	}

	ns, err := h.Svc.Create(c.Request.Context(), req.Name, req.DocumentIDs)
	if err != nil {
		h.fail(c, err, "failed to create note set")
		return
	}
	c.Set("noteSetId", ns.ID)
	respond.JSON(c, http.StatusCreated, ToResponse(ns))
}

func (h *Handler) list(c *gin.Context) {
	sets, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list note sets", nil)
		return
	}
	resp := make([]NoteSetResponse, 0, len(sets))
	for _, ns := range sets {
		resp = append(resp, ToResponse(ns))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	ns, docs, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch note set")
		return
	}
	c.Set("noteSetId", ns.ID)
	respond.OK(c, toDetailResponse(ns, docs))
}

type updateRequest struct {
	Name        *string   `json:"name"`
	DocumentIDs *[]string `json:"documentIds"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Name == nil && req.DocumentIDs == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no editable fields provided", nil)
		return
	}

	id := c.Param("id")
	var ns NoteSet
	var err error
	if req.Name != nil {
		ns, err = h.Svc.Rename(c.Request.Context(), id, *req.Name)
		if err != nil {
			h.fail(c, err, "failed to rename note set")
			return
		}
	}
	if req.DocumentIDs != nil {
		ns, err = h.Svc.ReplaceMembers(c.Request.Context(), id, *req.DocumentIDs)
		if err != nil {
			h.fail(c, err, "failed to replace note set members")
			return
		}
	}
	c.Set("noteSetId", ns.ID)
	respond.OK(c, ToResponse(ns))
}

type appendRequest struct {
	DocumentID string `json:"documentId"`
}

func (h *Handler) appendDocument(c *gin.Context) {
	var req appendRequest
	if !h.bind(c, &req) {
		return
	}

	ns, err := h.Svc.Append(c.Request.Context(), c.Param("id"), req.DocumentID)
	if err != nil {
		h.fail(c, err, "failed to add document to note set")
		return
	}
	c.Set("noteSetId", ns.ID)
	respond.OK(c, ToResponse(ns))
}

func (h *Handler) removeDocument(c *gin.Context) {
	ns, err := h.Svc.Remove(c.Request.Context(), c.Param("id"), c.Param("docId"))
	if err != nil {
		h.fail(c, err, "failed to remove document from note set")
		return
	}
	c.Set("noteSetId", ns.ID)
	respond.OK(c, ToResponse(ns))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete note set")
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) bind(c *gin.Context, out any) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "note set not found", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrDuplicateMember):
		respond.Error(c, http.StatusConflict, "duplicate_member", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
