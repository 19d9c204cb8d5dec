package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func fakeAudioExtractor(t *testing.T) func(ctx context.Context, mediaPath string) (string, error) {
	t.Helper()
	return func(ctx context.Context, mediaPath string) (string, error) {
		f, err := os.CreateTemp(t.TempDir(), "audio-*.mp3")
		if err != nil {
			return "", err
		}
		f.WriteString("fake audio")
		f.Close()
		return f.Name(), nil
	}
}

func TestOpenAITranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("missing auth header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Fatalf("response_format = %q, want verbose_json", got)
		}
		w.Write([]byte(`{
			"language": "en",
			"segments": [
				{"start": 0.0, "end": 2.5, "text": "hello"},
				{"start": 2.5, "end": 4.0, "text": "world"}
			]
		}`))
	}))
	defer server.Close()

	client := NewOpenAIWhisperClient("test-key").
		WithURL(server.URL).
		WithAudioExtractor(fakeAudioExtractor(t))

	segments, err := client.Transcribe(context.Background(), "/media/clip.mp4")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "hello" || segments[1].End != 4.0 {
		t.Errorf("segments parsed wrong: %+v", segments)
	}
}

func TestOpenAITranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limit"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAIWhisperClient("test-key").
		WithURL(server.URL).
		WithAudioExtractor(fakeAudioExtractor(t))

	if _, err := client.Transcribe(context.Background(), "/media/clip.mp4"); err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestOpenAITranscribeNoKey(t *testing.T) {
	client := NewOpenAIWhisperClient("")
	if _, err := client.Transcribe(context.Background(), "/media/clip.mp4"); err == nil {
		t.Fatal("expected error without API key")
	}
}
