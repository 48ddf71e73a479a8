package mediaadmin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soniclabel/media-admin/pkg/mediaadmin/puburl"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/retry"
)

// Service is the media upload and association-reconciliation pipeline.
// Every mutating operation takes the caller's Principal explicitly and
// fails closed without the administrative capability.
type Service interface {
	// IssueUploadCredentials validates every requested file, then mints
	// one short-lived presigned PUT credential per file, preserving
	// input order. Validation is all-or-nothing: the first rejection
	// aborts the batch before any blob-store call.
	IssueUploadCredentials(ctx context.Context, p *Principal, req IssueUploadRequest) ([]PresignedCredential, error)

	// FindDuplicates returns the non-deleted media records whose
	// content hash is in hashes. Hashes with no match are absent from
	// the result.
	FindDuplicates(ctx context.Context, p *Principal, hashes []string) ([]DuplicateInfo, error)

	// RegisterUpload persists the media record for a finished
	// client-side upload.
	RegisterUpload(ctx context.Context, p *Principal, req RegisterUploadRequest) (*MediaRecord, error)

	// MarkUploadStatus advances a media record's upload lifecycle.
	MarkUploadStatus(ctx context.Context, p *Principal, id uuid.UUID, status MediaUploadStatus) error

	// DeleteMedia soft-deletes the record and removes the blob.
	DeleteMedia(ctx context.Context, p *Principal, id uuid.UUID) error

	// UpdateTrack applies field updates to a track, then converges its
	// artist and release edges toward the desired sets. A nil desired
	// slice leaves that edge type untouched; an empty non-nil slice
	// clears it.
	UpdateTrack(ctx context.Context, p *Principal, req UpdateTrackRequest) (*Track, error)

	// CheckHealth issues one liveness round trip against the store.
	CheckHealth(ctx context.Context) HealthStatus
}

// IssueUploadRequest asks for upload credentials for a batch of files
// belonging to one catalog entity.
type IssueUploadRequest struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Files      []UploadRequest `json:"files"`
}

// RegisterUploadRequest records the durable artifact of a completed
// client-side upload.
type RegisterUploadRequest struct {
	Title       string `json:"title,omitempty"`
	ContentHash string `json:"content_hash"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
}

// UpdateTrackRequest carries a track's field updates plus the desired
// association sets. Nil slices mean "leave untouched".
type UpdateTrackRequest struct {
	TrackID    uuid.UUID   `json:"track_id"`
	Title      *string     `json:"title,omitempty"`
	Position   *int        `json:"position,omitempty"`
	ArtistIDs  []uuid.UUID `json:"artist_ids,omitempty"`
	ReleaseIDs []uuid.UUID `json:"release_ids,omitempty"`
}

// DefaultPresignTTL is the validity window of issued upload credentials.
const DefaultPresignTTL = 900 * time.Second

// service implements the Service interface
type service struct {
	repo       Repository
	signer     BlobSigner
	urls       puburl.Resolver
	presignTTL time.Duration
	retry      retry.Policy
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the durable-store repository.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithBlobSigner sets the blob-store signer collaborator.
func WithBlobSigner(signer BlobSigner) Option {
	return func(s *service) {
		s.signer = signer
	}
}

// WithURLResolver sets the public URL resolver.
func WithURLResolver(r puburl.Resolver) Option {
	return func(s *service) {
		s.urls = r
	}
}

// WithPresignTTL overrides the credential validity window.
func WithPresignTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.presignTTL = ttl
	}
}

// WithRetryPolicy overrides the retry policy for durable-store calls.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *service) {
		s.retry = p
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		presignTTL: DefaultPresignTTL,
		retry:      retry.DefaultPolicy(),
		now:        time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}
