package ingest

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/documents"
	"notescan-backend/internal/notesets"
	"notescan-backend/internal/ocr"
	"notescan-backend/internal/shared/server/respond"
	"notescan-backend/internal/shared/storage/object"
)

const (
	maxUploadSize   = 10 << 20 // 10MB per file
	formOverhead    = 1 << 20  // multipart boundaries and text fields
	defaultMaxFiles = 20
	storageCategory = "documents"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
}

// Handler wires the upload endpoints to the pipeline and orchestrator.
type Handler struct {
	Pipeline     *Pipeline
	Orchestrator *Orchestrator
	Store        object.ObjectStore
	MaxFiles     int
}

// NewHandler constructs a Handler.
func NewHandler(pipeline *Pipeline, orchestrator *Orchestrator, store object.ObjectStore, maxFiles int) *Handler {
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	return &Handler{
		Pipeline:     pipeline,
		Orchestrator: orchestrator,
		Store:        store,
		MaxFiles:     maxFiles,
	}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("/upload-batch", h.uploadBatch)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !imageAllowed(fileHeader) {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"invalid file type: only image files are allowed", nil)
		return
	}
	if fileHeader.Size > maxUploadSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10MB limit", nil)
		return
	}

	stored, err := h.saveUpload(c, fileHeader, 0)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return
	}

	doc, err := h.Pipeline.ProcessFile(c.Request.Context(), stored)
	if err != nil {
		// The file is useless without a Document row; remove it.
		_ = h.Store.Delete(c.Request.Context(), stored.StorageKey)
		h.failPipeline(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"success":  true,
		"document": documents.ToResponse(doc),
	})
}

type batchResponse struct {
	NoteSet        *notesets.NoteSetResponse `json:"noteSet"`
	ProcessedCount int                       `json:"processedCount"`
	ErrorCount     int                       `json:"errorCount"`
	Errors         []FileError               `json:"errors"`
}

func (h *Handler) uploadBatch(c *gin.Context) {
	maxBatchBytes := int64(h.MaxFiles)*maxUploadSize + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchBytes)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}
	if len(fileHeaders) > h.MaxFiles {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"too many files in one batch", gin.H{"limit": h.MaxFiles})
		return
	}

	name := strings.TrimSpace(c.PostForm("noteSetName"))

	// Files that never make it into storage still consume their position;
	// membership order follows the original request order.
	var stored []UploadedFile
	var preErrors []FileError
	for i, fileHeader := range fileHeaders {
		if !imageAllowed(fileHeader) {
			preErrors = append(preErrors, FileError{
				Filename: fileHeader.Filename,
				Reason:   "invalid file type: only image files are allowed",
			})
			continue
		}
		if fileHeader.Size > maxUploadSize {
			preErrors = append(preErrors, FileError{
				Filename: fileHeader.Filename,
				Reason:   "file exceeds the 10MB limit",
			})
			continue
		}
		upload, err := h.saveUpload(c, fileHeader, i)
		if err != nil {
			preErrors = append(preErrors, FileError{
				Filename: fileHeader.Filename,
				Reason:   "failed to store file",
			})
			continue
		}
		stored = append(stored, upload)
	}

	result, err := h.Orchestrator.ProcessBatch(c.Request.Context(), stored, name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "batch ingestion failed", nil)
		return
	}

	allErrors := append(preErrors, result.Errors...)
	resp := batchResponse{
		ProcessedCount: result.ProcessedCount,
		ErrorCount:     len(allErrors),
		Errors:         allErrors,
	}
	if result.NoteSet != nil {
		nsResp := notesets.ToResponse(*result.NoteSet)
		resp.NoteSet = &nsResp
		c.Set("noteSetId", result.NoteSet.ID)
	}

	respond.OK(c, resp)
}

func (h *Handler) saveUpload(c *gin.Context, fileHeader *multipart.FileHeader, index int) (UploadedFile, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return UploadedFile{}, err
	}
	defer file.Close()

	storageKey, size, mimeType, err := h.Store.Save(c.Request.Context(), storageCategory, fileHeader.Filename, file)
	if err != nil {
		return UploadedFile{}, err
	}

	declared := fileHeader.Header.Get("Content-Type")
	if declared != "" {
		mimeType = declared
	}

	return UploadedFile{
		Index:        index,
		StorageKey:   storageKey,
		Filename:     filepath.Base(storageKey),
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		SizeBytes:    size,
	}, nil
}

func (h *Handler) failPipeline(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ocr.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "service_unavailable", err.Error(), nil)
	case errors.Is(err, ocr.ErrTimedOut):
		respond.Error(c, http.StatusGatewayTimeout, "remote_timeout", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "processing_failed", err.Error(), nil)
	}
}

func imageAllowed(fileHeader *multipart.FileHeader) bool {
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(fileHeader.Header.Get("Content-Type"), ";")[0]))
	if _, ok := allowedImageTypes[mimeType]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	_, ok := allowedImageExtensions[ext]
	return ok
}
