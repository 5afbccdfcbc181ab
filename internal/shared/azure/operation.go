// Package azure implements the two-phase submit/poll protocol shared by the
// Azure analysis services: POST the raw bytes, receive an operation handle in
// the Operation-Location header, then poll the handle until a terminal status.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const keyHeader = "Ocp-Apim-Subscription-Key"

// Outcome tags the result of a bounded poll loop.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	TimedOut
)

// Submit posts the payload and returns the operation URL to poll.
func Submit(ctx context.Context, hc *http.Client, url, key string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set(keyHeader, key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("submit status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("no operation location returned")
	}
	return opURL, nil
}

// Poll fetches the operation until it reaches a terminal status or the attempt
// budget is spent. It sleeps for interval before each attempt and returns the
// terminal response body alongside the tagged outcome. A non-nil error is
// reserved for transport-level failures.
func Poll(ctx context.Context, hc *http.Client, operationURL, key string, maxAttempts int, interval time.Duration) (Outcome, []byte, error) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return TimedOut, nil, ctx.Err()
		case <-timer.C:
		}
		timer.Reset(interval)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return Failed, nil, err
		}
		req.Header.Set(keyHeader, key)

		resp, err := hc.Do(req)
		if err != nil {
			return Failed, nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return Failed, nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Failed, body, fmt.Errorf("poll status %d", resp.StatusCode)
		}

		var status struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &status); err != nil {
			return Failed, body, fmt.Errorf("poll response parse: %w", err)
		}

		switch strings.ToLower(status.Status) {
		case "succeeded":
			return Succeeded, body, nil
		case "failed":
			return Failed, body, nil
		}
	}

	return TimedOut, nil, nil
}
