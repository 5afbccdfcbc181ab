package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"notescan-backend/internal/layout"
	"notescan-backend/internal/shared/azure"
	"notescan-backend/internal/shared/telemetry"
)

const analyzePath = "/formrecognizer/documentModels/prebuilt-layout:analyze?api-version=2023-07-31"

// Client implements layout.Client using Azure Document Intelligence.
// Every failure mode degrades to an unsuccessful Result; structure analysis
// enriches the cleanup prompt but is never required.
type Client struct {
	endpoint    string
	key         string
	httpClient  *http.Client
	maxAttempts int
	interval    time.Duration
}

// New constructs a prebuilt-layout client.
func New(endpoint, key string, maxAttempts int, interval time.Duration) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 30
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Client{
		endpoint:    strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		key:         strings.TrimSpace(key),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Pages []struct {
			PageNumber int `json:"pageNumber"`
		} `json:"pages"`
		Tables []struct {
			RowCount    int `json:"rowCount"`
			ColumnCount int `json:"columnCount"`
		} `json:"tables"`
		Paragraphs []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"paragraphs"`
	} `json:"analyzeResult"`
}

// Analyze submits the image and polls for structural data.
func (c *Client) Analyze(ctx context.Context, image []byte) layout.Result {
	if c.endpoint == "" || c.key == "" {
		return layout.Result{}
	}

	opURL, err := azure.Submit(ctx, c.httpClient, c.endpoint+analyzePath, c.key, image)
	if err != nil {
		c.degrade("layout.submit_failed", err)
		return layout.Result{}
	}

	outcome, body, err := azure.Poll(ctx, c.httpClient, opURL, c.key, c.maxAttempts, c.interval)
	if outcome != azure.Succeeded {
		c.degrade("layout.analysis_failed", err)
		return layout.Result{}
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.degrade("layout.parse_failed", err)
		return layout.Result{}
	}

	data := &layout.Data{PageCount: len(parsed.AnalyzeResult.Pages)}
	for _, t := range parsed.AnalyzeResult.Tables {
		data.Tables = append(data.Tables, layout.Table{RowCount: t.RowCount, ColumnCount: t.ColumnCount})
	}
	for _, p := range parsed.AnalyzeResult.Paragraphs {
		data.Paragraphs = append(data.Paragraphs, layout.Paragraph{Role: p.Role, Content: p.Content})
	}

	return layout.Result{Success: true, Data: data}
}

func (c *Client) degrade(msg string, err error) {
	fields := map[string]any{}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn(msg, fields)
}

var _ layout.Client = (*Client)(nil)
