package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const defaultTranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIWhisperClient uses the OpenAI Whisper API as the ASR engine.
type OpenAIWhisperClient struct {
	apiKey     string
	url        string
	httpClient *http.Client

	// extractAudio is swappable so tests can avoid the ffmpeg dependency.
	extractAudio func(ctx context.Context, mediaPath string) (string, error)
}

func NewOpenAIWhisperClient(apiKey string) *OpenAIWhisperClient {
	return &OpenAIWhisperClient{
		apiKey: apiKey,
		url:    defaultTranscriptionURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
		extractAudio: extractAudioMP3,
	}
}

// WithURL overrides the transcription endpoint, used in tests.
func (c *OpenAIWhisperClient) WithURL(url string) *OpenAIWhisperClient {
	c.url = url
	return c
}

// WithAudioExtractor overrides audio extraction, used in tests.
func (c *OpenAIWhisperClient) WithAudioExtractor(fn func(ctx context.Context, mediaPath string) (string, error)) *OpenAIWhisperClient {
	c.extractAudio = fn
	return c
}

func (c *OpenAIWhisperClient) Name() string {
	return "openai"
}

// Transcribe extracts the audio track and sends it for recognition,
// returning the timed segments. No retries; the caller decides how a
// failure degrades.
func (c *OpenAIWhisperClient) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	audioPath, err := c.extractAudio(ctx, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	defer os.Remove(audioPath)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, err
	}

	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "verbose_json")
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.url, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[transcript] sending transcription request for %s", filepath.Base(mediaPath))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Language string    `json:"language"`
		Segments []Segment `json:"segments"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse transcription: %w", err)
	}

	return result.Segments, nil
}

// extractAudioMP3 extracts the audio track as MP3 (smaller upload than WAV).
func extractAudioMP3(ctx context.Context, mediaPath string) (string, error) {
	tmpFile, err := os.CreateTemp("", "transcript-audio-*.mp3")
	if err != nil {
		return "", err
	}
	tmpFile.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", mediaPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		"-y",
		tmpFile.Name(),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	return tmpFile.Name(), nil
}
