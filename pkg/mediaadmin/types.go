package mediaadmin

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the capability level of a caller.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Principal is the authenticated caller. Every mutating entry point
// receives it explicitly; a nil Principal means "no session".
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal holds the administrative
// capability. Safe to call on a nil principal.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// FileCategory is the classification of a declared upload content type.
type FileCategory string

const (
	FileCategoryImage    FileCategory = "image"
	FileCategoryAudio    FileCategory = "audio"
	FileCategoryRejected FileCategory = "rejected"
)

// UploadRequest is the per-file payload a client submits when asking for
// upload credentials. It is never persisted.
type UploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	// ExistingKey, when set, requests an overwrite of a previously
	// uploaded object at the same storage key.
	ExistingKey string `json:"existing_key,omitempty"`
}

// PresignedCredential is one short-lived upload authorization. It is
// minted on demand and never stored.
type PresignedCredential struct {
	UploadURL  string `json:"upload_url"`
	StorageKey string `json:"storage_key"`
	PublicURL  string `json:"public_url"`
}

// MediaUploadStatus is the domain type for media upload lifecycle states.
type MediaUploadStatus string

const (
	UploadStatusPending   MediaUploadStatus = "pending"
	UploadStatusUploading MediaUploadStatus = "uploading"
	UploadStatusCompleted MediaUploadStatus = "completed"
	UploadStatusFailed    MediaUploadStatus = "failed"
)

// IsValid reports whether the status is a known lifecycle state.
func (s MediaUploadStatus) IsValid() bool {
	switch s {
	case UploadStatusPending, UploadStatusUploading, UploadStatusCompleted, UploadStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s MediaUploadStatus) CanTransitionTo(next MediaUploadStatus) bool {
	switch s {
	case UploadStatusPending:
		return next == UploadStatusUploading || next == UploadStatusCompleted || next == UploadStatusFailed
	case UploadStatusUploading:
		return next == UploadStatusCompleted || next == UploadStatusFailed
	case UploadStatusFailed:
		return next == UploadStatusUploading
	}
	return false
}

// MediaRecord is the durable artifact of a finished (or in-flight)
// upload: the public URL plus the content hash used for duplicate
// detection.
type MediaRecord struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title,omitempty"`
	ContentHash  string            `json:"content_hash"`
	StorageKey   string            `json:"storage_key"`
	PublicURL    string            `json:"public_url"`
	ContentType  string            `json:"content_type,omitempty"`
	FileSize     int64             `json:"file_size,omitempty"`
	UploadStatus MediaUploadStatus `json:"upload_status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    *time.Time        `json:"deleted_at,omitempty"`
}

// DuplicateInfo describes one already-uploaded media record matching a
// requested content hash. ExistingKey is nil when the record's public
// URL cannot be mapped back to a storage key; the caller must then
// decide whether to proceed with a fresh upload.
type DuplicateInfo struct {
	Hash         string            `json:"hash"`
	MediaID      uuid.UUID         `json:"media_id"`
	Title        string            `json:"title,omitempty"`
	URL          string            `json:"url"`
	UploadStatus MediaUploadStatus `json:"upload_status"`
	ExistingKey  *string           `json:"existing_key"`
}

// EdgeType selects which many-to-many link of a track an operation
// applies to.
type EdgeType string

const (
	EdgeArtist  EdgeType = "artist"
	EdgeRelease EdgeType = "release"
)

// AssociationEdge is one track-artist or track-release link. The edge
// has its own identity distinct from the two entities it connects; at
// most one edge exists per (track, linked entity) pair.
type AssociationEdge struct {
	ID        uuid.UUID `json:"id"`
	TrackID   uuid.UUID `json:"track_id"`
	Edge      EdgeType  `json:"edge_type"`
	LinkedID  uuid.UUID `json:"linked_id"`
	Position  int       `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Track is the catalog entity whose artist/release memberships the
// reconciler converges.
type Track struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthStatus is the result of one liveness round trip against the
// durable store. LatencyMS is only present on success.
type HealthStatus struct {
	Healthy   bool   `json:"healthy"`
	LatencyMS *int64 `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}
