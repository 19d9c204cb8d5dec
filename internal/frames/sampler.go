// Package frames computes representative sample timestamps for a video and
// extracts one still frame per timestamp via ffmpeg.
package frames

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultSampleCount matches the service default for visual clue extraction.
const DefaultSampleCount = 2

// Frame is one decoded sample: its offset into the video and the encoded
// JPEG bytes.
type Frame struct {
	TimestampMs int64
	Data        []byte
}

// SampleTimestamps returns count millisecond offsets evenly spaced across
// [0, durationMs]. A count of one (or less) yields the single midpoint.
func SampleTimestamps(durationMs int64, count int) []int64 {
	if count <= 1 {
		return []int64{durationMs / 2}
	}
	timestamps := make([]int64, count)
	for i := 0; i < count; i++ {
		timestamps[i] = durationMs * int64(i) / int64(count-1)
	}
	return timestamps
}

// Extractor decodes single frames from a video file by seeking with ffmpeg.
type Extractor struct {
	ffmpegBinary string

	// decode is swappable so tests can avoid the ffmpeg dependency.
	decode func(ctx context.Context, videoPath string, timestampMs int64, outPath string) error
}

func NewExtractor() *Extractor {
	e := &Extractor{ffmpegBinary: "ffmpeg"}
	e.decode = e.extractOne
	return e
}

// WithDecoder overrides single-frame decoding, used in tests.
func (e *Extractor) WithDecoder(fn func(ctx context.Context, videoPath string, timestampMs int64, outPath string) error) *Extractor {
	e.decode = fn
	return e
}

// Extract seeks to each timestamp and decodes one frame. A failed seek or
// decode (end of stream, corrupt region) skips that timestamp and the rest
// continue. The scratch directory holding decoded frames is removed before
// returning on every path.
func (e *Extractor) Extract(ctx context.Context, videoPath string, timestamps []int64) ([]Frame, error) {
	scratch, err := os.MkdirTemp("", "frames-*")
	if err != nil {
		return nil, fmt.Errorf("frame scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	var frames []Frame
	for i, ts := range timestamps {
		if ctx.Err() != nil {
			return frames, ctx.Err()
		}
		outPath := filepath.Join(scratch, fmt.Sprintf("frame_%04d.jpg", i))
		if err := e.decode(ctx, videoPath, ts, outPath); err != nil {
			log.Printf("[frames] skipping timestamp %dms: %v", ts, err)
			continue
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			log.Printf("[frames] skipping timestamp %dms: read frame: %v", ts, err)
			continue
		}
		frames = append(frames, Frame{TimestampMs: ts, Data: data})
	}
	return frames, nil
}

func (e *Extractor) extractOne(ctx context.Context, videoPath string, timestampMs int64, outPath string) error {
	cmd := exec.CommandContext(ctx, e.ffmpegBinary,
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", float64(timestampMs)/1000),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg seek: %w: %s", err, string(output))
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		return fmt.Errorf("no frame decoded at %dms", timestampMs)
	}
	return nil
}
