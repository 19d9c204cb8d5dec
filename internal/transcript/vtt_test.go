package transcript

import (
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{83.456, "00:01:23.456"},
		{3661.5, "01:01:01.500"},
		{-2, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildVTT(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2.5, Text: " hello there "},
		{Start: 2.5, End: 5, Text: "count 1 --> 2"},
	}
	vtt := BuildVTT(segments)

	if !strings.HasPrefix(vtt, "WEBVTT\n\n") {
		t.Errorf("missing WEBVTT header: %q", vtt)
	}
	if !strings.Contains(vtt, "00:00:00.000 --> 00:00:02.500\nhello there") {
		t.Errorf("first cue malformed:\n%s", vtt)
	}
	// Literal arrow inside text must not survive as a cue separator
	if !strings.Contains(vtt, "count 1 -> 2") {
		t.Errorf("text arrow not rewritten:\n%s", vtt)
	}
	if strings.Count(vtt, "-->") != 2 {
		t.Errorf("expected exactly 2 timestamp arrows, got %d", strings.Count(vtt, "-->"))
	}
}

func TestSimplifyTimestamps(t *testing.T) {
	in := "00:01:23.456 --> 00:01:25.789\nhello\n"
	got := SimplifyTimestamps(in)
	if !strings.HasPrefix(got, "01:23") {
		t.Errorf("simplified = %q, want prefix 01:23", got)
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("text dropped: %q", got)
	}
	if strings.Contains(got, "-->") {
		t.Errorf("timestamp pair survived: %q", got)
	}

	// Hours fold into minutes
	got = SimplifyTimestamps("01:02:03.900 --> 01:02:05.000\nhi\n")
	if !strings.HasPrefix(got, "62:03") {
		t.Errorf("hour folding failed: %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(nil); got != NoSpeechSentinel {
		t.Errorf("Normalize(nil) = %q, want sentinel", got)
	}
	if got := Normalize([]Segment{}); got != NoSpeechSentinel {
		t.Errorf("Normalize(empty) = %q, want sentinel", got)
	}

	got := Normalize([]Segment{{Start: 83.456, End: 85.789, Text: "hello"}})
	if !strings.Contains(got, "01:23") || !strings.Contains(got, "hello") {
		t.Errorf("Normalize = %q, want simplified cue", got)
	}
	if got == NoSpeechSentinel {
		t.Errorf("non-empty transcript collapsed to sentinel")
	}
}
