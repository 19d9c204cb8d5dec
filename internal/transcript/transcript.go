// Package transcript converts speech-recognition output into the compact
// subtitle form consumed by the naming digest.
package transcript

import "context"

// Segment is one timed text span as emitted by the ASR engine.
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Recognizer is the common interface for ASR engines.
type Recognizer interface {
	// Transcribe converts the media file's audio to timed segments.
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
	// Name returns the engine name.
	Name() string
}
