package azureopenai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"notescan-backend/internal/cleanup"
	"notescan-backend/internal/shared/telemetry"
)

// Client implements cleanup.Client using Azure OpenAI chat completions.
// The deployment must accept vision content parts when images are attached.
type Client struct {
	endpoint   string
	key        string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// New constructs an Azure OpenAI client. Endpoint and key may be empty;
// Clean then degrades to the unmodified input.
func New(endpoint, key, deployment, apiVersion string) *Client {
	if deployment == "" {
		deployment = "gpt-4o"
	}
	if apiVersion == "" {
		apiVersion = "2024-08-01-preview"
	}
	return &Client{
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		key:        strings.TrimSpace(key),
		deployment: deployment,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Clean asks the deployment to fix recognition artifacts. Any failure
// degrades to the raw text so the pipeline never stalls on cleanup.
func (c *Client) Clean(ctx context.Context, in cleanup.Input) cleanup.Result {
	fallback := cleanup.Result{CleanedText: in.Text}

	if c.endpoint == "" || c.key == "" {
		telemetry.Warn("cleanup.not_configured", nil)
		return fallback
	}

	cleaned, err := c.complete(ctx, in)
	if err != nil {
		telemetry.Warn("cleanup.degraded", map[string]any{"error": err.Error()})
		return fallback
	}

	return cleanup.Result{
		Success:     true,
		CleanedText: stripCodeFences(cleaned),
		Model:       c.deployment,
	}
}

func (c *Client) complete(ctx context.Context, in cleanup.Input) (string, error) {
	userContent := any(buildUserPrompt(in.Text, in.ContextBlock, in.LayoutSummary))
	if len(in.Image) > 0 {
		mime := in.ImageMime
		if mime == "" {
			mime = http.DetectContentType(in.Image)
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(in.Image))
		userContent = []contentPart{
			{Type: "text", Text: buildUserPrompt(in.Text, in.ContextBlock, in.LayoutSummary)},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		}
	}

	payload, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("azure openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("azure openai status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("response empty content")
	}
	return content, nil
}

var _ cleanup.Client = (*Client)(nil)
