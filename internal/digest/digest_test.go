package digest

import (
	"strings"
	"testing"
)

func TestAssembleRoundTrip(t *testing.T) {
	clues := []FrameDescription{
		{TimestampMs: 0, Text: "a whiteboard with diagrams"},
		{TimestampMs: 30000, Text: "two people talking at a table"},
	}
	transcript := "00:00\nwelcome everyone\n"

	d := Assemble(clues, transcript, "VID_2024.mp4", "team meeting recording")

	// Re-extracting the fields returns the originals unchanged
	if d.Transcript != transcript {
		t.Errorf("transcript changed: %q", d.Transcript)
	}
	if d.OriginalName != "VID_2024.mp4" {
		t.Errorf("original name changed: %q", d.OriginalName)
	}
	if d.UserContext != "team meeting recording" {
		t.Errorf("user context changed: %q", d.UserContext)
	}

	lines := strings.Split(d.VisualClues, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 clue lines, got %d: %q", len(lines), d.VisualClues)
	}
	if lines[0] != "00:00:00.000,a whiteboard with diagrams" {
		t.Errorf("first clue = %q", lines[0])
	}
	if lines[1] != "00:00:30.000,two people talking at a table" {
		t.Errorf("second clue = %q", lines[1])
	}
}

func TestAssembleNoFrames(t *testing.T) {
	d := Assemble(nil, "no speech content", "audio.mkv", "")
	if d.VisualClues != "" {
		t.Errorf("empty clue sequence should render empty, got %q", d.VisualClues)
	}
	if d.Transcript != "no speech content" {
		t.Errorf("transcript = %q", d.Transcript)
	}
}

func TestFormatClueTimestamp(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00.000"},
		{1500, "00:00:01.500"},
		{83456, "00:01:23.456"},
		{3723004, "01:02:03.004"},
	}
	for _, tt := range tests {
		if got := formatClueTimestamp(tt.ms); got != tt.want {
			t.Errorf("formatClueTimestamp(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
