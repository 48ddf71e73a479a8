package mediaadmin

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyShape = regexp.MustCompile(`^media/artists/artist-1/[a-z0-9-]+-\d+-[a-z0-9]+\.[a-z0-9]+$`)

func TestDeriveKeyShape(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantExt  string
	}{
		{"simple", "cover.jpg", "jpg"},
		{"upper case extension", "Cover.JPG", "jpg"},
		{"spaces and specials", "My Great Song (final mix).flac", "flac"},
		{"no extension", "README", "bin"},
		{"unicode", "trâck nâme.mp3", "mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := DeriveKey("artists", "artist-1", tt.fileName)
			assert.Regexp(t, keyShape, key)
			assert.True(t, strings.HasSuffix(key, "."+tt.wantExt), "key %q should end in .%s", key, tt.wantExt)
			assert.True(t, strings.HasPrefix(key, "media/artists/artist-1/"))
		})
	}
}

func TestDeriveKeyBaseNameSanitization(t *testing.T) {
	key := DeriveKey("releases", "rel-9", "My Great Song (final mix).flac")

	// Segment between the entity prefix and the -{timestamp}-{suffix}
	// trailer is the sanitized base name.
	name := strings.TrimPrefix(key, "media/releases/rel-9/")
	parts := strings.Split(name, "-")
	require.Greater(t, len(parts), 2)
	base := strings.Join(parts[:len(parts)-2], "-")

	assert.LessOrEqual(t, len(base), 50)
	assert.Regexp(t, `^[a-z0-9-]+$`, base)
	assert.Contains(t, base, "my-great-song")
}

func TestDeriveKeyTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("abcde", 30) + ".wav"
	key := DeriveKey("tracks", "t1", long)

	name := strings.TrimPrefix(key, "media/tracks/t1/")
	parts := strings.Split(name, "-")
	base := strings.Join(parts[:len(parts)-2], "-")
	assert.LessOrEqual(t, len(base), 50)
}

func TestDeriveKeyUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		key := DeriveKey("artists", "artist-1", "cover.jpg")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestUploadTargetFreshVersusOverwrite(t *testing.T) {
	fresh := FreshKey().Key("artists", "a1", "cover.jpg")
	assert.True(t, strings.HasPrefix(fresh, "media/artists/a1/"))

	existing := "media/artists/a1/cover-1700000000000-abc12345.jpg"
	reused := OverwriteKey(existing).Key("artists", "a1", "anything-else.png")
	assert.Equal(t, existing, reused)
}

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"normal", "normal"},
		{"With Spaces", "with-spaces"},
		{"mixed_CASE.123", "mixed-case-123"},
		{"âccents", "-ccents"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeBaseName(tt.input))
		})
	}
}
