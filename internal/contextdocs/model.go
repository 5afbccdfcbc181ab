package contextdocs

import "time"

// ContextDocument is a reference artifact used only to enrich cleanup
// prompts. Immutable after creation except via delete.
type ContextDocument struct {
	ID           string    `bson:"_id"`
	Filename     string    `bson:"filename"`
	OriginalName string    `bson:"originalName"`
	StorageKey   string    `bson:"storageKey"`
	MimeType     string    `bson:"mimeType"`
	SizeBytes    int64     `bson:"size"`
	Content      string    `bson:"content"`
	Description  string    `bson:"description"`
	Category     string    `bson:"category"`
	UploadedAt   time.Time `bson:"uploadDate"`
}
