package mediaadmin

import (
	"context"
	"fmt"
	"strings"

	"github.com/soniclabel/media-admin/pkg/mediaadmin/retry"
)

// FindDuplicates looks up existing, non-deleted media records by
// content hash so redundant uploads can be short-circuited before
// credentials are issued. The capability check runs regardless of the
// hash list; a store failure comes back as an error with a nil list,
// never conflated with "zero duplicates found".
func (s *service) FindDuplicates(ctx context.Context, p *Principal, hashes []string) ([]DuplicateInfo, error) {
	if !p.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	cleaned := normalizeHashes(hashes)
	if len(cleaned) == 0 {
		return []DuplicateInfo{}, nil
	}

	records, err := retry.DoValue(ctx, s.retry, func(ctx context.Context) ([]*MediaRecord, error) {
		return s.repo.GetMediaByHashes(ctx, cleaned)
	})
	if err != nil {
		return nil, fmt.Errorf("checking duplicates: %w", err)
	}

	duplicates := make([]DuplicateInfo, 0, len(records))
	for _, rec := range records {
		var existingKey *string
		if key, ok := s.urls.KeyFromURL(rec.PublicURL); ok {
			existingKey = &key
		}
		duplicates = append(duplicates, DuplicateInfo{
			Hash:         rec.ContentHash,
			MediaID:      rec.ID,
			Title:        rec.Title,
			URL:          rec.PublicURL,
			UploadStatus: rec.UploadStatus,
			ExistingKey:  existingKey,
		})
	}

	return duplicates, nil
}

// normalizeHashes discards empty and whitespace-only hashes and
// deduplicates the rest, preserving first-seen order.
func normalizeHashes(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
