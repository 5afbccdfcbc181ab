package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"notescan-backend/internal/ocr"
	"notescan-backend/internal/shared/azure"
)

const (
	analyzePath = "/vision/v3.2/read/analyze"

	// Substituted when the service recognizes no words, so an empty page
	// never produces a divide-by-zero or NaN confidence.
	defaultConfidence = 85.0
)

// Client implements ocr.Client using the Azure Computer Vision Read API.
type Client struct {
	endpoint    string
	key         string
	httpClient  *http.Client
	maxAttempts int
	interval    time.Duration
}

// New constructs a Read API client. Endpoint and key may be empty; Recognize
// then reports ocr.ErrNotConfigured.
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

type readResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Lines []struct {
				Text  string `json:"text"`
				Words []struct {
					Text       string   `json:"text"`
					Confidence *float64 `json:"confidence"`
				} `json:"words"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

// Recognize submits the image, polls until terminal, and extracts the full
// text with a mean word-level confidence scaled to 0-100.
func (c *Client) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	if c.endpoint == "" || c.key == "" {
		return ocr.Result{}, ocr.ErrNotConfigured
	}

	opURL, err := azure.Submit(ctx, c.httpClient, c.endpoint+analyzePath, c.key, image)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("%w: %v", ocr.ErrFailed, err)
	}

	outcome, body, err := azure.Poll(ctx, c.httpClient, opURL, c.key, c.maxAttempts, c.interval)
	switch outcome {
	case azure.Succeeded:
	case azure.TimedOut:
		return ocr.Result{}, ocr.ErrTimedOut
	default:
		if err != nil {
			return ocr.Result{}, fmt.Errorf("%w: %v", ocr.ErrFailed, err)
		}
		return ocr.Result{}, ocr.ErrFailed
	}

	var parsed readResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ocr.Result{}, fmt.Errorf("%w: parse result: %v", ocr.ErrFailed, err)
	}

	var b strings.Builder
	var totalConfidence float64
	var wordCount int
	for _, page := range parsed.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			b.WriteString(line.Text)
			b.WriteString("\n")
			for _, word := range line.Words {
				if word.Confidence != nil {
					totalConfidence += *word.Confidence
					wordCount++
				}
			}
		}
	}

	confidence := defaultConfidence
	if wordCount > 0 {
		confidence = totalConfidence / float64(wordCount) * 100
	}
	confidence = math.Round(confidence*100) / 100

	return ocr.Result{
		Text:       strings.TrimSpace(b.String()),
		Confidence: confidence,
	}, nil
}

var _ ocr.Client = (*Client)(nil)
