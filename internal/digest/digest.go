// Package digest builds the structured content digest of timestamped visual
// descriptions plus a normalized transcript that the naming decision
// consumes.
package digest

import (
	"fmt"
	"strings"
)

// FrameDescription pairs a sample timestamp with the model's description of
// the frame decoded there. Sequences are kept in ascending timestamp order.
type FrameDescription struct {
	TimestampMs int64  `json:"timestamp_ms"`
	Text        string `json:"text"`
}

// Digest is the payload handed to the naming decision. It is assembled once
// per media asset and not persisted.
type Digest struct {
	VisualClues  string `json:"visual_clues"`
	Transcript   string `json:"transcript"`
	OriginalName string `json:"original_name"`
	UserContext  string `json:"user_context"`
}

// formatClueTimestamp renders a millisecond offset as HH:MM:SS.mmm.
func formatClueTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	ms %= 3600000
	m := ms / 60000
	ms %= 60000
	s := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// Assemble merges the accepted descriptions, the normalized transcript, and
// request metadata into a digest. Pure merge; no validation beyond presence
// and no side effects. An empty clue sequence (audio-only, all frames
// skipped) renders as an empty visual clue block.
func Assemble(clues []FrameDescription, transcript, originalName, userContext string) Digest {
	lines := make([]string, 0, len(clues))
	for _, c := range clues {
		lines = append(lines, fmt.Sprintf("%s,%s", formatClueTimestamp(c.TimestampMs), c.Text))
	}
	return Digest{
		VisualClues:  strings.Join(lines, "\n"),
		Transcript:   transcript,
		OriginalName: originalName,
		UserContext:  userContext,
	}
}
