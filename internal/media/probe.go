package media

import (
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
)

type probeResult struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

type probeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"` // video, audio, subtitle
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	RFrameRate string `json:"r_frame_rate,omitempty"`
	NbFrames   string `json:"nb_frames,omitempty"`
}

// Info is the probed shape of a video asset. DurationMs is derived from the
// frame count and frame rate when both are known, falling back to the
// container duration otherwise.
type Info struct {
	DurationMs int64   `json:"duration_ms"`
	FrameRate  float64 `json:"frame_rate"`
	FrameCount int64   `json:"frame_count"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	VideoCodec string  `json:"video_codec"`
	AudioCodec string  `json:"audio_codec"`
	HasAudio   bool    `json:"has_audio"`
}

// Probe inspects a video file with ffprobe. An unopenable file or a zero
// frame rate yields InvalidMediaError.
func Probe(filePath string) (*Info, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, &InvalidMediaError{Path: filePath, Reason: "cannot open for decoding", Err: err}
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, &InvalidMediaError{Path: filePath, Reason: "unreadable probe output", Err: err}
	}

	info := &Info{}
	for _, s := range result.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
				info.FrameRate = parseFrameRate(s.RFrameRate)
				info.FrameCount, _ = strconv.ParseInt(s.NbFrames, 10, 64)
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
				info.HasAudio = true
			}
		}
	}

	if info.FrameRate == 0 {
		return nil, &InvalidMediaError{Path: filePath, Reason: "zero or undefined frame rate"}
	}

	if info.FrameCount > 0 {
		info.DurationMs = int64(float64(info.FrameCount) / info.FrameRate * 1000)
	} else if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		info.DurationMs = int64(d * 1000)
	}
	if info.DurationMs <= 0 {
		return nil, &InvalidMediaError{Path: filePath, Reason: "zero or unknown duration"}
	}

	return info, nil
}

// parseFrameRate handles ffprobe's fractional rates like "30000/1001".
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0
	}
	if num, den, ok := strings.Cut(rate, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0
	}
	return f
}
