package notesets

import (
	"time"

	"notescan-backend/internal/documents"
)

// NoteSetResponse is the outward-facing representation of a note set.
type NoteSetResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Documents []Membership `json:"documents"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NoteSetDetailResponse additionally resolves member documents in order.
type NoteSetDetailResponse struct {
	NoteSetResponse
	Members []documents.DocumentResponse `json:"members"`
}

// ToResponse converts a NoteSet for API output.
func ToResponse(ns NoteSet) NoteSetResponse {
	members := ns.Documents
	if members == nil {
		members = []Membership{}
	}
	return NoteSetResponse{
		ID:        ns.ID,
		Name:      ns.Name,
		Documents: members,
		CreatedAt: ns.CreatedAt,
		UpdatedAt: ns.UpdatedAt,
	}
}

func toDetailResponse(ns NoteSet, docs []documents.Document) NoteSetDetailResponse {
	resolved := make([]documents.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resolved = append(resolved, documents.ToResponse(doc))
	}
	return NoteSetDetailResponse{
		NoteSetResponse: ToResponse(ns),
		Members:         resolved,
	}
}
