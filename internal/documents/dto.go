package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID            string    `json:"id"`
	OriginalName  string    `json:"originalName"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	OCRText       string    `json:"ocrText"`
	OCRConfidence float64   `json:"ocrConfidence"`
	AICleanedText string    `json:"aiCleanedText"`
	AIProcessed   bool      `json:"aiProcessed"`
	AIModel       string    `json:"aiModel,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// ToResponse converts a Document for API output.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		OriginalName:  doc.OriginalName,
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		OCRText:       doc.OCRText,
		OCRConfidence: doc.OCRConfidence,
		AICleanedText: doc.AICleanedText,
		AIProcessed:   doc.AIProcessed,
		AIModel:       doc.AIModel,
		UploadedAt:    doc.UploadedAt,
	}
}
