package layout

import (
	"context"
	"fmt"
	"strings"
)

// Table describes one detected table's shape.
type Table struct {
	RowCount    int `json:"rowCount"`
	ColumnCount int `json:"columnCount"`
}

// Paragraph is one detected paragraph with its structural role, when known.
type Paragraph struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// Data is the structural description of one analyzed image.
type Data struct {
	PageCount  int         `json:"pageCount"`
	Tables     []Table     `json:"tables,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
}

// Result reports an analysis attempt. Layout analysis is advisory: a failed
// attempt carries Success=false and nil Data, never an error.
type Result struct {
	Success bool
	Data    *Data
}

// Client abstracts structure-analysis providers.
type Client interface {
	Analyze(ctx context.Context, image []byte) Result
}

// Summary renders a short plain-text description of the detected structure,
// suitable for inclusion in a cleanup prompt.
func (d *Data) Summary() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Document structure: %d page(s)", d.PageCount)
	if len(d.Tables) > 0 {
		fmt.Fprintf(&b, ", %d table(s):", len(d.Tables))
		for i, t := range d.Tables {
			fmt.Fprintf(&b, " table %d is %dx%d;", i+1, t.RowCount, t.ColumnCount)
		}
	}
	var headings []string
	for _, p := range d.Paragraphs {
		if p.Role == "title" || p.Role == "sectionHeading" {
			headings = append(headings, p.Content)
		}
	}
	if len(headings) > 0 {
		fmt.Fprintf(&b, " Headings: %s.", strings.Join(headings, "; "))
	}
	return b.String()
}

// Disabled is a Client for deployments without a structure-analysis service.
type Disabled struct{}

// Analyze always reports an unsuccessful, data-free result.
func (Disabled) Analyze(ctx context.Context, image []byte) Result {
	_ = ctx
	_ = image
	return Result{}
}
