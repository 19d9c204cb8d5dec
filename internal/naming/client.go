// Package naming asks a language model to pick a new, searchable base name
// for a media file from its content digest.
package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/media-namer/backend/internal/digest"
)

// defaultBaseURL targets a local OpenAI-compatible endpoint (LM Studio and
// friends); point it at api.openai.com/v1 for the hosted API.
const defaultBaseURL = "http://localhost:1234/v1"

// Decision is the typed naming response. The model is held to this schema
// instead of free-text with delimiters.
type Decision struct {
	Filename string `json:"filename"` // proposed base name, no extension
	Reason   string `json:"reason"`
	Tags     string `json:"tags"` // comma-separated
	Question string `json:"question,omitempty"`
}

// Namer is the digest consumer that picks the new filename.
type Namer interface {
	ChooseName(ctx context.Context, d digest.Digest) (*Decision, error)
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "google/gemma-3-12b"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChooseName sends the digest and decodes the typed naming decision. No
// retries; a failure surfaces to the caller with the request stage attached.
func (c *Client) ChooseName(ctx context.Context, d digest.Digest) (*Decision, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildUserPrompt(d)},
		},
		Temperature:    0.7,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("naming request: encode body: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("naming request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("naming request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("naming request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naming API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("naming request: decode response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("naming API error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("empty naming response")
	}
	if fr := chat.Choices[0].FinishReason; fr != "" && fr != "stop" {
		log.Printf("[naming] WARNING: finish_reason=%s", fr)
	}

	var decision Decision
	if err := DecodeModelJSON(chat.Choices[0].Message.Content, &decision); err != nil {
		return nil, fmt.Errorf("naming decision: parse payload: %w", err)
	}
	decision.Filename = strings.TrimSpace(decision.Filename)
	if decision.Filename == "" {
		return nil, fmt.Errorf("naming decision: empty filename")
	}
	return &decision, nil
}
