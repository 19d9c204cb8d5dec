package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies a media asset by its extension.
type Kind int

const (
	KindVideo Kind = iota
	KindImage
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// DetectKind resolves the asset kind from the file extension. Files outside
// both allow-lists fail with UnsupportedTypeError before any decoding happens.
func DetectKind(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return KindVideo, nil
	case imageExtensions[ext]:
		return KindImage, nil
	default:
		return 0, &UnsupportedTypeError{Path: path, Ext: ext}
	}
}
