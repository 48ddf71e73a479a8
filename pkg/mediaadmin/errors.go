package mediaadmin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrNotAuthorized indicates the caller lacks the administrative
	// capability (or has no session at all). Surfaced to clients as a
	// generic denial.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrBucketNotConfigured indicates the storage bucket is missing
	// from the deployment environment. Distinct from validation errors
	// so operators can tell a broken deployment from bad client input.
	ErrBucketNotConfigured = errors.New("storage bucket not configured")

	// ErrMediaNotFound indicates a media record was not found
	ErrMediaNotFound = errors.New("media not found")

	// ErrTrackNotFound indicates a track was not found
	ErrTrackNotFound = errors.New("track not found")

	// ErrInvalidStatusTransition indicates an illegal upload status change
	ErrInvalidStatusTransition = errors.New("invalid upload status transition")
)

// ValidationError carries a user-facing reason for rejecting client
// input (bad content type, oversized file, empty batch).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// MediaError represents an error from a media record operation
type MediaError struct {
	MediaID uuid.UUID
	Op      string
	Err     error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for media %s: %v", e.Op, e.MediaID, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// EdgeError represents an error from an association edge operation
type EdgeError struct {
	TrackID uuid.UUID
	Edge    EdgeType
	Op      string
	Err     error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge operation %s failed for track %s (%s): %v", e.Op, e.TrackID, e.Edge, e.Err)
}

func (e *EdgeError) Unwrap() error {
	return e.Err
}
