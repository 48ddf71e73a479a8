package mediaadmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		expected    FileCategory
	}{
		{"image/jpeg", FileCategoryImage},
		{"image/png", FileCategoryImage},
		{"image/webp", FileCategoryImage},
		{"image/gif", FileCategoryImage},
		{"image/tiff", FileCategoryImage},
		{"audio/flac", FileCategoryAudio},
		{"audio/wav", FileCategoryAudio},
		{"audio/x-aiff", FileCategoryAudio},
		{"audio/x-m4a", FileCategoryAudio},
		{"audio/mpeg", FileCategoryAudio},
		{"audio/aac", FileCategoryAudio},
		{"audio/ogg", FileCategoryAudio},
		{"audio/opus", FileCategoryAudio},
		{"audio/webm", FileCategoryAudio},
		{"application/octet-stream", FileCategoryRejected},
		{"video/mp4", FileCategoryRejected},
		{"text/html", FileCategoryRejected},
		{"", FileCategoryRejected},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.contentType))
		})
	}
}

func TestValidateFileSizeCeilings(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		fileSize    int64
		wantErr     bool
	}{
		{"image at ceiling", "image/jpeg", MaxImageBytes, false},
		{"image over ceiling", "image/jpeg", MaxImageBytes + 1, true},
		{"audio at ceiling", "audio/flac", MaxAudioBytes, false},
		{"audio over ceiling", "audio/flac", MaxAudioBytes + 1, true},
		{"small image", "image/png", 1024, false},
		{"small audio", "audio/mpeg", 1024, false},
		{"zero size image", "image/png", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.contentType, tt.fileSize)
			if tt.wantErr {
				require.Error(t, err)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Reason, "File too large")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileMessagesNameLimitAndCategory(t *testing.T) {
	err := ValidateFile("image/jpeg", MaxImageBytes+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image")
	assert.Contains(t, err.Error(), "50 MiB")

	err = ValidateFile("audio/flac", MaxAudioBytes+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio")
	assert.Contains(t, err.Error(), "1 GiB")
}

func TestValidateFileRejectsUnknownTypes(t *testing.T) {
	err := ValidateFile("application/octet-stream", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type")
	assert.Contains(t, err.Error(), "application/octet-stream")
}
