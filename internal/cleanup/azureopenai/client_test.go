package azureopenai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notescan-backend/internal/cleanup"
)

func chatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New(srv.URL, "key", "gpt-4o", "")
	return srv, c
}

func TestCleanReturnsModelOutput(t *testing.T) {
	var gotBody map[string]any
	srv, c := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "key" {
			t.Errorf("missing api-key header")
		}
		if !strings.Contains(r.URL.Path, "/openai/deployments/gpt-4o/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"# Cleaned\n\nText"}}]}`))
	})
	defer srv.Close()

	got := c.Clean(context.Background(), cleanup.Input{Text: "raw tixt"})
	if !got.Success {
		t.Fatalf("Success = false, want true")
	}
	if got.CleanedText != "# Cleaned\n\nText" {
		t.Errorf("CleanedText = %q", got.CleanedText)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", got.Model)
	}
	if temp, ok := gotBody["temperature"].(float64); !ok || temp != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotBody["temperature"])
	}
}

func TestCleanStripsCodeFences(t *testing.T) {
	srv, c := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"` + "```markdown\\n# Title\\n```" + `"}}]}`))
	})
	defer srv.Close()

	got := c.Clean(context.Background(), cleanup.Input{Text: "raw"})
	if got.CleanedText != "# Title" {
		t.Errorf("CleanedText = %q, want %q", got.CleanedText, "# Title")
	}
}

func TestCleanAttachesImageAsDataURL(t *testing.T) {
	var req chatRequest
	srv, c := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		var raw struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(raw.Messages) == 2 {
			var parts []contentPart
			if err := json.Unmarshal(raw.Messages[1].Content, &parts); err != nil {
				t.Errorf("user content is not a part list: %v", err)
			} else {
				req.Messages = []chatMessage{{Role: "user", Content: parts}}
			}
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"done"}}]}`))
	})
	defer srv.Close()

	c.Clean(context.Background(), cleanup.Input{
		Text:      "raw",
		Image:     []byte("fakeimagebytes"),
		ImageMime: "image/png",
	})

	parts, ok := req.Messages[0].Content.([]contentPart)
	if !ok || len(parts) != 2 {
		t.Fatalf("expected two content parts, got %#v", req.Messages)
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL == nil {
		t.Fatalf("second part is not an image: %#v", parts[1])
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image URL = %q, want data URL", parts[1].ImageURL.URL)
	}
}

func TestCleanDegradesOnServiceError(t *testing.T) {
	srv, c := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	defer srv.Close()

	got := c.Clean(context.Background(), cleanup.Input{Text: "raw text"})
	if got.Success {
		t.Fatalf("Success = true, want degraded")
	}
	if got.CleanedText != "raw text" {
		t.Errorf("CleanedText = %q, want original", got.CleanedText)
	}
}

func TestCleanNotConfigured(t *testing.T) {
	c := New("", "", "", "")
	got := c.Clean(context.Background(), cleanup.Input{Text: "keep me"})
	if got.Success {
		t.Fatalf("Success = true, want false")
	}
	if got.CleanedText != "keep me" {
		t.Errorf("CleanedText = %q, want original", got.CleanedText)
	}
}
