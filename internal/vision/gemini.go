package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient describes images using the Google Gemini API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiAPIBase,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// WithBaseURL overrides the API base, used in tests.
func (g *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	g.baseURL = baseURL
	return g
}

func (g *GeminiClient) Name() string {
	return "gemini"
}

// Describe sends the images (and optional instruction) in a single
// generateContent request and returns the model's text. Failures are wrapped
// in UnavailableError; no retries happen here.
func (g *GeminiClient) Describe(ctx context.Context, images [][]byte, instruction string) (string, error) {
	if g.apiKey == "" {
		return "", &UnavailableError{Err: fmt.Errorf("Gemini API key not configured")}
	}
	if len(images) == 0 {
		return "", &UnavailableError{Err: fmt.Errorf("no images provided")}
	}

	parts := make([]map[string]interface{}, 0, len(images)+1)
	if instruction != "" {
		parts = append(parts, map[string]interface{}{"text": instruction})
	}
	for _, img := range images {
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]string{
				"mime_type": "image/jpeg",
				"data":      base64.StdEncoding.EncodeToString(img),
			},
		})
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.4,
		},
		"safetySettings": []map[string]string{
			{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_NONE"},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &UnavailableError{Err: err}
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &UnavailableError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", &UnavailableError{Err: fmt.Errorf("Gemini API request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnavailableError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UnavailableError{Err: fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &UnavailableError{Err: fmt.Errorf("parse response: %w", err)}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		if geminiResp.PromptFeedback.BlockReason != "" {
			return "", &UnavailableError{Err: fmt.Errorf("Gemini blocked: %s", geminiResp.PromptFeedback.BlockReason)}
		}
		return "", &UnavailableError{Err: fmt.Errorf("empty Gemini response")}
	}

	if fr := geminiResp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
		log.Printf("[vision] WARNING: finishReason=%s", fr)
	}

	text := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", &UnavailableError{Err: fmt.Errorf("empty description text")}
	}
	return text, nil
}
