package mediaadmin

import "fmt"

// Size ceilings per file category.
const (
	MaxImageBytes int64 = 50 << 20 // 50 MiB
	MaxAudioBytes int64 = 1 << 30  // 1 GiB
)

var imageContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/tiff": {},
}

var audioContentTypes = map[string]struct{}{
	"audio/flac":   {},
	"audio/x-flac": {},
	"audio/wav":    {},
	"audio/x-wav":  {},
	"audio/wave":   {},
	"audio/aiff":   {},
	"audio/x-aiff": {},
	"audio/x-m4a":  {},
	"audio/mp4":    {},
	"audio/mpeg":   {},
	"audio/aac":    {},
	"audio/ogg":    {},
	"audio/opus":   {},
	"audio/webm":   {},
}

// Classify maps a declared content type onto a file category. Anything
// outside the fixed image and audio allow-lists is rejected.
func Classify(contentType string) FileCategory {
	if _, ok := imageContentTypes[contentType]; ok {
		return FileCategoryImage
	}
	if _, ok := audioContentTypes[contentType]; ok {
		return FileCategoryAudio
	}
	return FileCategoryRejected
}

// ValidateFile checks a declared content type and size against the
// acceptance policy. The returned error is user-facing and names the
// category and its limit.
func ValidateFile(contentType string, fileSize int64) error {
	switch Classify(contentType) {
	case FileCategoryImage:
		if fileSize > MaxImageBytes {
			return &ValidationError{Reason: fmt.Sprintf(
				"File too large: image files must be 50 MiB (%d bytes) or smaller, got %d bytes", MaxImageBytes, fileSize)}
		}
	case FileCategoryAudio:
		if fileSize > MaxAudioBytes {
			return &ValidationError{Reason: fmt.Sprintf(
				"File too large: audio files must be 1 GiB (%d bytes) or smaller, got %d bytes", MaxAudioBytes, fileSize)}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf(
			"Invalid file type: %s. Only images and audio files are allowed", contentType)}
	}
	return nil
}
