package mediaadmin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for media record and association
// edge persistence.
type Repository interface {
	// Media operations
	CreateMedia(ctx context.Context, media *MediaRecord) error
	GetMedia(ctx context.Context, id uuid.UUID) (*MediaRecord, error)
	GetMediaByHashes(ctx context.Context, hashes []string) ([]*MediaRecord, error)
	UpdateMediaStatus(ctx context.Context, id uuid.UUID, status MediaUploadStatus) error
	DeleteMedia(ctx context.Context, id uuid.UUID) error

	// Track operations
	GetTrack(ctx context.Context, id uuid.UUID) (*Track, error)
	UpdateTrack(ctx context.Context, track *Track) error

	// Association edge operations
	ListEdges(ctx context.Context, trackID uuid.UUID, edge EdgeType) ([]*AssociationEdge, error)
	// ApplyEdgeDiff removes the edges named by deleteIDs and inserts
	// creates, pipelined as one batch round trip.
	ApplyEdgeDiff(ctx context.Context, edge EdgeType, deleteIDs []uuid.UUID, creates []*AssociationEdge) error

	// WithTx runs fn against a repository bound to a single serializable
	// transaction, committing on nil and rolling back on error.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Ping issues one trivial liveness query.
	Ping(ctx context.Context) error
}

// SignPutParams carries everything the blob store needs to mint one
// scoped PUT credential.
type SignPutParams struct {
	Key         string
	ContentType string
	Metadata    map[string]string
	TTL         time.Duration
}

// BlobSigner is the blob-store collaborator: it signs time-limited PUT
// URLs and deletes objects. Byte transfer itself happens client-side
// against the signed URL.
type BlobSigner interface {
	SignPut(ctx context.Context, params SignPutParams) (string, error)
	Delete(ctx context.Context, key string) error
}
