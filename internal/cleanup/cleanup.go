package cleanup

import "context"

// Input carries everything the cleanup step may use: the recognized text,
// the original image, and the enrichment blocks built earlier in the pipeline.
type Input struct {
	Text          string
	Image         []byte
	ImageMime     string
	ContextBlock  string
	LayoutSummary string
}

// Result reports a cleanup attempt. Cleanup is advisory: on failure Success
// is false and CleanedText carries the input text unchanged.
type Result struct {
	Success     bool
	CleanedText string
	Model       string
}

// Client abstracts generative text-cleanup providers.
type Client interface {
	Clean(ctx context.Context, in Input) Result
}

// Disabled is a Client for deployments without a cleanup service.
type Disabled struct{}

// Clean returns the input text unchanged.
func (Disabled) Clean(ctx context.Context, in Input) Result {
	_ = ctx
	return Result{CleanedText: in.Text}
}
