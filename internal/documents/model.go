package documents

import "time"

// Document is one processed upload: the stored image plus its recognized and
// cleaned text. Raw and cleaned text stay user-editable after creation.
type Document struct {
	ID            string    `bson:"_id"`
	Filename      string    `bson:"filename"`
	OriginalName  string    `bson:"originalName"`
	StorageKey    string    `bson:"storageKey"`
	MimeType      string    `bson:"mimeType"`
	SizeBytes     int64     `bson:"size"`
	OCRText       string    `bson:"ocrText"`
	OCRConfidence float64   `bson:"ocrConfidence"`
	AICleanedText string    `bson:"aiCleanedText"`
	AIProcessed   bool      `bson:"aiProcessed"`
	AIModel       string    `bson:"aiModel"`
	UploadedAt    time.Time `bson:"uploadDate"`
}
