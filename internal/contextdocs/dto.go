package contextdocs

import "time"

// ContextDocumentResponse is the outward-facing representation of a context document.
type ContextDocumentResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(doc ContextDocument) ContextDocumentResponse {
	return ContextDocumentResponse{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Description:  doc.Description,
		Category:     doc.Category,
		UploadedAt:   doc.UploadedAt,
	}
}
