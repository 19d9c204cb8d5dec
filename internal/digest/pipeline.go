package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/media-namer/backend/internal/frames"
	"github.com/media-namer/backend/internal/media"
	"github.com/media-namer/backend/internal/transcript"
	"github.com/media-namer/backend/internal/vision"
)

// defaultInstruction steers the vision model toward short, searchable
// frame descriptions.
const defaultInstruction = "Describe this image in 30 words or fewer. " +
	"Refer to any people as \"person\"; do not name specific works or franchises."

// Pipeline runs the digest construction for one media asset at a time:
// sample frames, describe, deduplicate, normalize the transcript, assemble.
// All stages are sequential; each run owns its own scratch state.
type Pipeline struct {
	describer   vision.Describer
	recognizer  transcript.Recognizer
	similarity  Similarity
	maxFrames   int
	instruction string

	// probe and extract are swappable so tests can avoid the
	// ffprobe/ffmpeg dependency.
	probe   func(path string) (*media.Info, error)
	extract func(ctx context.Context, videoPath string, timestamps []int64) ([]frames.Frame, error)
}

func NewPipeline(describer vision.Describer, recognizer transcript.Recognizer) *Pipeline {
	extractor := frames.NewExtractor()
	return &Pipeline{
		describer:   describer,
		recognizer:  recognizer,
		similarity:  TokenSetSimilarity{},
		maxFrames:   frames.DefaultSampleCount,
		instruction: defaultInstruction,
		probe:       media.Probe,
		extract:     extractor.Extract,
	}
}

// WithSimilarity swaps the dedup similarity measure.
func (p *Pipeline) WithSimilarity(sim Similarity) *Pipeline {
	if sim != nil {
		p.similarity = sim
	}
	return p
}

// WithMaxFrames sets the default sample count for runs that do not specify one.
func (p *Pipeline) WithMaxFrames(n int) *Pipeline {
	if n > 0 {
		p.maxFrames = n
	}
	return p
}

// WithInstruction overrides the per-frame description instruction.
func (p *Pipeline) WithInstruction(instruction string) *Pipeline {
	if instruction != "" {
		p.instruction = instruction
	}
	return p
}

// WithProbe overrides media probing, used in tests.
func (p *Pipeline) WithProbe(fn func(path string) (*media.Info, error)) *Pipeline {
	p.probe = fn
	return p
}

// WithFrameExtractor overrides frame extraction, used in tests.
func (p *Pipeline) WithFrameExtractor(fn func(ctx context.Context, videoPath string, timestamps []int64) ([]frames.Frame, error)) *Pipeline {
	p.extract = fn
	return p
}

// Run builds the digest for one asset. maxFrames <= 0 uses the pipeline
// default. progress may be nil. The extension allow-list check happens
// before any decoding is attempted.
func (p *Pipeline) Run(ctx context.Context, path, userPrompt string, maxFrames int, progress func(float64)) (*Digest, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	if maxFrames <= 0 {
		maxFrames = p.maxFrames
	}

	kind, err := media.DetectKind(path)
	if err != nil {
		return nil, err
	}

	var clues []FrameDescription
	switch kind {
	case media.KindImage:
		clues, err = p.describeImage(ctx, path)
	case media.KindVideo:
		clues, err = p.describeVideo(ctx, path, maxFrames, progress)
	}
	if err != nil {
		return nil, err
	}
	progress(0.7)

	text := transcript.NoSpeechSentinel
	if kind == media.KindVideo {
		segments, err := p.recognizer.Transcribe(ctx, path)
		if err != nil {
			// Naming can proceed on visual clues alone.
			log.Printf("[pipeline] transcript unavailable for %s: %v", filepath.Base(path), err)
		} else {
			text = transcript.Normalize(segments)
		}
	}
	progress(0.9)

	d := Assemble(clues, text, filepath.Base(path), userPrompt)
	return &d, nil
}

// describeImage treats a still image as a single implicit frame at
// timestamp zero.
func (p *Pipeline) describeImage(ctx context.Context, path string) ([]FrameDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &media.InvalidMediaError{Path: path, Reason: "cannot open for decoding", Err: err}
	}
	desc, err := p.describer.Describe(ctx, [][]byte{data}, p.instruction)
	if err != nil {
		var unavailable *vision.UnavailableError
		if errors.As(err, &unavailable) {
			log.Printf("[pipeline] skipping image description for %s: %v", filepath.Base(path), err)
			return nil, nil
		}
		return nil, fmt.Errorf("describe image: %w", err)
	}
	return []FrameDescription{{TimestampMs: 0, Text: desc}}, nil
}

func (p *Pipeline) describeVideo(ctx context.Context, path string, maxFrames int, progress func(float64)) ([]FrameDescription, error) {
	info, err := p.probe(path)
	if err != nil {
		return nil, err
	}
	progress(0.05)

	timestamps := frames.SampleTimestamps(info.DurationMs, maxFrames)
	log.Printf("[pipeline] sampling %d frames from %s (%dms)", len(timestamps), filepath.Base(path), info.DurationMs)

	sampled, err := p.extract(ctx, path, timestamps)
	if err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}
	progress(0.2)

	dedup := NewDeduplicator(p.similarity)
	var clues []FrameDescription
	for i, frame := range sampled {
		if ctx.Err() != nil {
			return clues, ctx.Err()
		}
		desc, err := p.describer.Describe(ctx, [][]byte{frame.Data}, p.instruction)
		if err != nil {
			var unavailable *vision.UnavailableError
			if errors.As(err, &unavailable) {
				log.Printf("[pipeline] skipping frame at %dms: %v", frame.TimestampMs, err)
				progress(0.2 + 0.5*float64(i+1)/float64(len(sampled)))
				continue
			}
			return nil, fmt.Errorf("describe frame at %dms: %w", frame.TimestampMs, err)
		}
		if dedup.Admit(desc) {
			clues = append(clues, FrameDescription{TimestampMs: frame.TimestampMs, Text: desc})
		}
		progress(0.2 + 0.5*float64(i+1)/float64(len(sampled)))
	}
	return clues, nil
}
