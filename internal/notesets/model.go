package notesets

import "time"

// Membership pairs a Document reference with its position in the set.
type Membership struct {
	DocumentID string `bson:"documentId" json:"documentId"`
	Order      int    `bson:"order" json:"order"`
}

// NoteSet is a named, ordered collection of Documents. Orders assigned by the
// collection manager are a dense 0-based sequence matching list position;
// batch ingestion instead assigns upload positions, which may be sparse when
// some files of a batch fail.
type NoteSet struct {
	ID        string       `bson:"_id"`
	Name      string       `bson:"name"`
	Documents []Membership `bson:"documents"`
	CreatedAt time.Time    `bson:"createdDate"`
	UpdatedAt time.Time    `bson:"updatedDate"`
}
