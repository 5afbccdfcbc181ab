package contextdocs

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedMimeTypes = map[string]struct{}{
	"text/plain":       {},
	"text/markdown":    {},
	"text/csv":         {},
	"application/json": {},
	"application/pdf":  {},
}

var allowedExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".json": {},
	".csv":  {},
	".pdf":  {},
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches context document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/context", h.list)
	rg.POST("/context", h.upload)
	rg.DELETE("/context/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !typeAllowed(fileHeader.Header.Get("Content-Type"), fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"invalid file type: only text, markdown, JSON, CSV, and PDF files are allowed", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	description := c.PostForm("description")
	category := c.PostForm("category")

	doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, description, category, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process context file", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list context documents", nil)
		return
	}
	resp := make([]ContextDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "context document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete context document", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func typeAllowed(mimeType, fileName string) bool {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if _, ok := allowedMimeTypes[clean]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	_, ok := allowedExtensions[ext]
	return ok
}
