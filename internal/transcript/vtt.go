package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

// NoSpeechSentinel replaces a transcript that is empty, absent, or failed to
// produce. Naming can proceed on visual clues alone.
const NoSpeechSentinel = "no speech content"

var timestampPairRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d{3}) --> \d{2}:\d{2}:\d{2}\.\d{3}`)

// FormatTimestamp renders seconds as a WebVTT timestamp HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	totalMs := int(seconds * 1000)
	if totalMs < 0 {
		totalMs = 0
	}
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// BuildVTT renders segments as a WebVTT block: header, then per segment a
// timestamp pair line and the text, separated by blank lines. Literal "-->"
// inside segment text is rewritten to "->" so it cannot corrupt the format.
func BuildVTT(segments []Segment) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		text := strings.ReplaceAll(strings.TrimSpace(seg.Text), "-->", "->")
		sb.WriteString(fmt.Sprintf("%s --> %s\n%s\n\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End), text))
	}
	return sb.String()
}

// SimplifyTimestamps rewrites every "HH:MM:SS.mmm --> HH:MM:SS.mmm" pair to
// just the start time as MM:SS, folding hours into minutes and truncating
// to whole seconds.
func SimplifyTimestamps(vtt string) string {
	return timestampPairRe.ReplaceAllStringFunc(vtt, func(match string) string {
		start := timestampPairRe.FindStringSubmatch(match)[1]
		var h, m, s, ms int
		fmt.Sscanf(start, "%d:%d:%d.%d", &h, &m, &s, &ms)
		return fmt.Sprintf("%02d:%02d", h*60+m, s)
	})
}

// Normalize produces the simplified transcript for the digest. A segment
// list that renders to nothing but the header collapses to the sentinel.
func Normalize(segments []Segment) string {
	vtt := BuildVTT(segments)
	if strings.TrimSpace(vtt) == "WEBVTT" {
		return NoSpeechSentinel
	}
	return SimplifyTimestamps(vtt)
}
