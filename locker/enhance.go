package locker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultEnhanceEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-flash-preview:generateContent"

// Enhancer rewrites rough seller notes into listing copy via an external
// text-generation service. It is best-effort only: on missing configuration
// or any failure the rough notes come back unchanged.
type Enhancer struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewEnhancer builds an Enhancer. An empty apiKey disables the service.
func NewEnhancer(apiKey string, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{
		apiKey:   apiKey,
		endpoint: defaultEnhanceEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      logger,
	}
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Enhance returns improved listing copy for the book, or roughNotes unchanged
// when the service is unconfigured or unavailable.
func (e *Enhancer) Enhance(ctx context.Context, title, author, roughNotes string) string {
	if e.apiKey == "" {
		e.log.Warn("no API key configured, skipping description enhancement")
		return roughNotes
	}

	prompt := fmt.Sprintf(`You are a curator for a high-end antique bookstore.
Please write a compelling, elegant, and concise description (max 80 words) for a book titled %q by %q.
Incorporate these notes from the seller: %q.
The tone should be sophisticated and inviting. Do not use markdown formatting.`, title, author, roughNotes)

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		e.log.Warn("enhance request encode failed", "error", err)
		return roughNotes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		e.log.Warn("enhance request build failed", "error", err)
		return roughNotes
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Warn("enhance call failed", "error", err)
		return roughNotes
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.log.Warn("enhance call rejected", "status", resp.StatusCode)
		return roughNotes
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		e.log.Warn("enhance response decode failed", "error", err)
		return roughNotes
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return roughNotes
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return roughNotes
	}
	return text
}
