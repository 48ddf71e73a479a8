package mediaadmin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func (s *service) IssueUploadCredentials(ctx context.Context, p *Principal, req IssueUploadRequest) ([]PresignedCredential, error) {
	if !p.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	if len(req.Files) == 0 {
		return nil, &ValidationError{Reason: "No files requested"}
	}

	// All-or-nothing: every file must pass before any credential is
	// minted.
	for _, f := range req.Files {
		if err := ValidateFile(f.ContentType, f.FileSize); err != nil {
			return nil, err
		}
	}

	// Deployment precondition, checked once per invocation before the
	// blob store is contacted.
	if s.urls.Bucket == "" {
		return nil, ErrBucketNotConfigured
	}
	if s.signer == nil {
		return nil, ErrBucketNotConfigured
	}

	creds := make([]PresignedCredential, 0, len(req.Files))
	for _, f := range req.Files {
		target := FreshKey()
		if f.ExistingKey != "" {
			target = OverwriteKey(f.ExistingKey)
		}
		key := target.Key(req.EntityType, req.EntityID, f.FileName)

		uploadURL, err := s.signer.SignPut(ctx, SignPutParams{
			Key:         key,
			ContentType: f.ContentType,
			TTL:         s.presignTTL,
			Metadata: map[string]string{
				"entity-type":   req.EntityType,
				"entity-id":     req.EntityID,
				"original-name": f.FileName,
				"uploaded-at":   strconv.FormatInt(s.now().UTC().Unix(), 10),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("signing upload credential for %q: %w", f.FileName, err)
		}

		creds = append(creds, PresignedCredential{
			UploadURL:  uploadURL,
			StorageKey: key,
			PublicURL:  s.urls.PublicURL(key),
		})
	}

	return creds, nil
}

func (s *service) RegisterUpload(ctx context.Context, p *Principal, req RegisterUploadRequest) (*MediaRecord, error) {
	if !p.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	if req.StorageKey == "" {
		return nil, &ValidationError{Reason: "Storage key is required"}
	}
	if req.ContentHash == "" {
		return nil, &ValidationError{Reason: "Content hash is required"}
	}

	now := s.now().UTC()
	media := &MediaRecord{
		ID:           uuid.New(),
		Title:        req.Title,
		ContentHash:  req.ContentHash,
		StorageKey:   req.StorageKey,
		PublicURL:    s.urls.PublicURL(req.StorageKey),
		ContentType:  req.ContentType,
		FileSize:     req.FileSize,
		UploadStatus: UploadStatusCompleted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateMedia(ctx, media); err != nil {
		return nil, &MediaError{MediaID: media.ID, Op: "register", Err: err}
	}

	return media, nil
}

func (s *service) MarkUploadStatus(ctx context.Context, p *Principal, id uuid.UUID, status MediaUploadStatus) error {
	if !p.IsAdmin() {
		return ErrNotAuthorized
	}
	if !status.IsValid() {
		return &ValidationError{Reason: fmt.Sprintf("Unknown upload status %q", status)}
	}

	media, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return &MediaError{MediaID: id, Op: "get", Err: err}
	}
	if !media.UploadStatus.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, media.UploadStatus, status)
	}

	if err := s.repo.UpdateMediaStatus(ctx, id, status); err != nil {
		return &MediaError{MediaID: id, Op: "update_status", Err: err}
	}
	return nil
}

func (s *service) DeleteMedia(ctx context.Context, p *Principal, id uuid.UUID) error {
	if !p.IsAdmin() {
		return ErrNotAuthorized
	}

	media, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return &MediaError{MediaID: id, Op: "get", Err: err}
	}

	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		return &MediaError{MediaID: id, Op: "delete", Err: err}
	}

	if s.signer != nil && media.StorageKey != "" {
		if err := s.signer.Delete(ctx, media.StorageKey); err != nil {
			return &MediaError{MediaID: id, Op: "delete_blob", Err: err}
		}
	}
	return nil
}
