package mediaadmin

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	keyPrefix     = "media"
	fallbackExt   = "bin"
	maxBaseLength = 50
	suffixLength  = 8
)

// UploadTarget selects between deriving a fresh storage key and reusing
// an existing one verbatim (the overwrite path).
type UploadTarget struct {
	existing string
}

// FreshKey returns a target that mints a new storage key.
func FreshKey() UploadTarget {
	return UploadTarget{}
}

// OverwriteKey returns a target that reuses key verbatim, so the upload
// replaces the previous object at the same public URL.
func OverwriteKey(key string) UploadTarget {
	return UploadTarget{existing: key}
}

// Key resolves the storage key for an upload. Overwrite targets return
// their key unchanged; fresh targets derive one from the entity and the
// original filename.
func (t UploadTarget) Key(entityType, entityID, fileName string) string {
	if t.existing != "" {
		return t.existing
	}
	return DeriveKey(entityType, entityID, fileName)
}

// DeriveKey produces a collision-resistant, human-traceable storage key
// of the form media/{entityType}/{entityId}/{name}-{millis}-{suffix}.{ext}.
// The deterministic prefix enables prefix-based listing and cleanup per
// entity; the millisecond timestamp plus an independent random suffix
// keeps keys unique under concurrent requests for the same entity.
func DeriveKey(entityType, entityID, fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		ext = fallbackExt
	}

	base := sanitizeBaseName(strings.TrimSuffix(fileName, filepath.Ext(fileName)))

	return fmt.Sprintf("%s/%s/%s/%s-%d-%s.%s",
		keyPrefix, entityType, entityID,
		base, time.Now().UnixMilli(), randomSuffix(suffixLength), ext)
}

// sanitizeBaseName lower-cases the name, replaces every character
// outside [a-z0-9] with '-' and truncates to maxBaseLength.
func sanitizeBaseName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	s := b.String()
	if len(s) > maxBaseLength {
		s = s[:maxBaseLength]
	}
	return s
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%1e8)
	}
	for i, c := range buf {
		buf[i] = suffixAlphabet[int(c)%len(suffixAlphabet)]
	}
	return string(buf)
}
