package digest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/media-namer/backend/internal/frames"
	"github.com/media-namer/backend/internal/media"
	"github.com/media-namer/backend/internal/transcript"
	"github.com/media-namer/backend/internal/vision"
)

type fakeDescriber struct {
	text string
	err  error
}

func (f *fakeDescriber) Describe(ctx context.Context, images [][]byte, instruction string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeRecognizer struct {
	segments []transcript.Segment
	err      error
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, mediaPath string) ([]transcript.Segment, error) {
	return f.segments, f.err
}

func (f *fakeRecognizer) Name() string { return "fake" }

// scriptedDescriber answers one entry per call, in order. A nil error with
// an empty text slot is not expected by any test.
type scriptedDescriber struct {
	texts []string
	errs  []error
	calls int
}

func (s *scriptedDescriber) Describe(ctx context.Context, images [][]byte, instruction string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.texts[i], nil
}

// videoPipeline wires fakes for probing and extraction so the video branch
// runs without ffmpeg.
func videoPipeline(d vision.Describer, r transcript.Recognizer, sampled []frames.Frame) *Pipeline {
	return NewPipeline(d, r).
		WithProbe(func(path string) (*media.Info, error) {
			return &media.Info{DurationMs: 4000, FrameRate: 30, FrameCount: 120}, nil
		}).
		WithFrameExtractor(func(ctx context.Context, videoPath string, timestamps []int64) ([]frames.Frame, error) {
			return sampled, nil
		})
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg but bytes suffice"), 0644); err != nil {
		t.Fatalf("write test image: %v", err)
	}
	return path
}

func TestRunUnsupportedExtension(t *testing.T) {
	p := NewPipeline(&fakeDescriber{text: "x"}, &fakeRecognizer{})
	_, err := p.Run(context.Background(), "/media/notes.txt", "", 0, nil)

	var unsupported *media.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedTypeError", err)
	}
}

func TestRunImage(t *testing.T) {
	path := writeTestImage(t)
	p := NewPipeline(&fakeDescriber{text: "a sunset over water"}, &fakeRecognizer{})

	d, err := p.Run(context.Background(), path, "vacation photos", 0, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if d.VisualClues != "00:00:00.000,a sunset over water" {
		t.Errorf("visual clues = %q", d.VisualClues)
	}
	// Images carry no speech
	if d.Transcript != transcript.NoSpeechSentinel {
		t.Errorf("transcript = %q, want sentinel", d.Transcript)
	}
	if d.OriginalName != "photo.jpg" {
		t.Errorf("original name = %q", d.OriginalName)
	}
	if d.UserContext != "vacation photos" {
		t.Errorf("user context = %q", d.UserContext)
	}
}

func TestRunImageDescriptionUnavailable(t *testing.T) {
	path := writeTestImage(t)
	describer := &fakeDescriber{err: &vision.UnavailableError{Err: errors.New("model down")}}
	p := NewPipeline(describer, &fakeRecognizer{})

	// A failed gateway call skips the frame's contribution, not the asset
	d, err := p.Run(context.Background(), path, "", 0, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if d.VisualClues != "" {
		t.Errorf("visual clues = %q, want empty", d.VisualClues)
	}
}

func TestRunVideoDeduplicatesConsecutiveFrames(t *testing.T) {
	sampled := []frames.Frame{
		{TimestampMs: 0, Data: []byte("f0")},
		{TimestampMs: 2000, Data: []byte("f1")},
		{TimestampMs: 4000, Data: []byte("f2")},
	}
	describer := &scriptedDescriber{texts: []string{"a cat sits", "a cat sits", "a dog runs"}}
	recognizer := &fakeRecognizer{segments: []transcript.Segment{
		{Start: 1.0, End: 2.5, Text: "hello there"},
	}}
	p := videoPipeline(describer, recognizer, sampled)

	d, err := p.Run(context.Background(), "/media/clip.mp4", "", 3, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// The repeated middle description is dropped, the rest keep their order
	want := "00:00:00.000,a cat sits\n00:00:04.000,a dog runs"
	if d.VisualClues != want {
		t.Errorf("visual clues = %q, want %q", d.VisualClues, want)
	}
	if !strings.Contains(d.Transcript, "hello there") {
		t.Errorf("transcript = %q, want it to contain the segment text", d.Transcript)
	}
	if !strings.Contains(d.Transcript, "00:01") {
		t.Errorf("transcript = %q, want simplified start time", d.Transcript)
	}
}

func TestRunVideoFrameDescriptionUnavailable(t *testing.T) {
	sampled := []frames.Frame{
		{TimestampMs: 0, Data: []byte("f0")},
		{TimestampMs: 2000, Data: []byte("f1")},
		{TimestampMs: 4000, Data: []byte("f2")},
	}
	describer := &scriptedDescriber{
		texts: []string{"waves on a beach", "", "a boat at sea"},
		errs:  []error{nil, &vision.UnavailableError{Err: errors.New("rate limited")}, nil},
	}
	p := videoPipeline(describer, &fakeRecognizer{}, sampled)

	// The failed frame contributes nothing; the digest still assembles
	d, err := p.Run(context.Background(), "/media/clip.mp4", "", 3, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := "00:00:00.000,waves on a beach\n00:00:04.000,a boat at sea"
	if d.VisualClues != want {
		t.Errorf("visual clues = %q, want %q", d.VisualClues, want)
	}
	if d.Transcript != transcript.NoSpeechSentinel {
		t.Errorf("transcript = %q, want sentinel", d.Transcript)
	}
}

func TestRunMissingImage(t *testing.T) {
	p := NewPipeline(&fakeDescriber{text: "x"}, &fakeRecognizer{})
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "gone.png"), "", 0, nil)

	var invalid *media.InvalidMediaError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidMediaError", err)
	}
}
