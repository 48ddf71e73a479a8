package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
)

// Repository implements mediaadmin.Repository using in-memory storage.
// Useful for tests and local development without Postgres.
type Repository struct {
	mu     sync.RWMutex
	media  map[uuid.UUID]*mediaadmin.MediaRecord
	tracks map[uuid.UUID]*mediaadmin.Track
	edges  map[uuid.UUID]*mediaadmin.AssociationEdge
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		media:  make(map[uuid.UUID]*mediaadmin.MediaRecord),
		tracks: make(map[uuid.UUID]*mediaadmin.Track),
		edges:  make(map[uuid.UUID]*mediaadmin.AssociationEdge),
	}
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *mediaadmin.MediaRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mediaCopy := *media
	r.media[media.ID] = &mediaCopy
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*mediaadmin.MediaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, exists := r.media[id]
	if !exists || media.DeletedAt != nil {
		return nil, mediaadmin.ErrMediaNotFound
	}
	mediaCopy := *media
	return &mediaCopy, nil
}

func (r *Repository) GetMediaByHashes(ctx context.Context, hashes []string) ([]*mediaadmin.MediaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		want[h] = struct{}{}
	}

	var result []*mediaadmin.MediaRecord
	for _, media := range r.media {
		if media.DeletedAt != nil {
			continue
		}
		if _, ok := want[media.ContentHash]; ok {
			mediaCopy := *media
			result = append(result, &mediaCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateMediaStatus(ctx context.Context, id uuid.UUID, status mediaadmin.MediaUploadStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	media, exists := r.media[id]
	if !exists || media.DeletedAt != nil {
		return mediaadmin.ErrMediaNotFound
	}
	media.UploadStatus = status
	media.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	media, exists := r.media[id]
	if !exists || media.DeletedAt != nil {
		return mediaadmin.ErrMediaNotFound
	}
	now := time.Now().UTC()
	media.DeletedAt = &now
	media.UpdatedAt = now
	return nil
}

// Track operations

func (r *Repository) GetTrack(ctx context.Context, id uuid.UUID) (*mediaadmin.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	track, exists := r.tracks[id]
	if !exists {
		return nil, mediaadmin.ErrTrackNotFound
	}
	trackCopy := *track
	return &trackCopy, nil
}

func (r *Repository) UpdateTrack(ctx context.Context, track *mediaadmin.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tracks[track.ID]; !exists {
		return mediaadmin.ErrTrackNotFound
	}
	trackCopy := *track
	r.tracks[track.ID] = &trackCopy
	return nil
}

// CreateTrack seeds a track. Not part of mediaadmin.Repository; used by
// tests and local setups.
func (r *Repository) CreateTrack(ctx context.Context, track *mediaadmin.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trackCopy := *track
	r.tracks[track.ID] = &trackCopy
	return nil
}

// Association edge operations

func (r *Repository) ListEdges(ctx context.Context, trackID uuid.UUID, edge mediaadmin.EdgeType) ([]*mediaadmin.AssociationEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*mediaadmin.AssociationEdge
	for _, e := range r.edges {
		if e.TrackID == trackID && e.Edge == edge {
			edgeCopy := *e
			result = append(result, &edgeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) ApplyEdgeDiff(ctx context.Context, edge mediaadmin.EdgeType, deleteIDs []uuid.UUID, creates []*mediaadmin.AssociationEdge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range deleteIDs {
		delete(r.edges, id)
	}
	for _, e := range creates {
		edgeCopy := *e
		r.edges[e.ID] = &edgeCopy
	}
	return nil
}

// WithTx runs fn against the same repository. The in-memory store has
// no transactions; the mutex already serializes each operation.
func (r *Repository) WithTx(ctx context.Context, fn func(mediaadmin.Repository) error) error {
	return fn(r)
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}
