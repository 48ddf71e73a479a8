package mediaadmin

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UpdateTrack applies field updates and then reconciles the track's
// association edges against the desired sets. Edge reconciliation only
// runs once the primary update has succeeded, so a failed field update
// never leaves freshly attached associations behind.
func (s *service) UpdateTrack(ctx context.Context, p *Principal, req UpdateTrackRequest) (*Track, error) {
	if !p.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	track, err := s.repo.GetTrack(ctx, req.TrackID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		track.Title = *req.Title
	}
	if req.Position != nil {
		track.Position = *req.Position
	}
	track.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateTrack(ctx, track); err != nil {
		return nil, &EdgeError{TrackID: track.ID, Op: "update_track", Err: err}
	}

	// The two edge types touch disjoint rows and run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	if req.ArtistIDs != nil {
		g.Go(func() error {
			return s.reconcileEdges(gctx, track, EdgeArtist, req.ArtistIDs)
		})
	}
	if req.ReleaseIDs != nil {
		g.Go(func() error {
			return s.reconcileEdges(gctx, track, EdgeRelease, req.ReleaseIDs)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return track, nil
}

// reconcileEdges converges the stored edge set for one edge type toward
// desired using minimal insert/delete operations. The diff is keyed on
// linked-entity identity: edges are never updated in place, only
// removed and recreated. Fetch, diff and apply run inside a single
// serializable transaction so two racing edits to the same track cannot
// interleave.
func (s *service) reconcileEdges(ctx context.Context, track *Track, edge EdgeType, desired []uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		current, err := r.ListEdges(ctx, track.ID, edge)
		if err != nil {
			return err
		}

		toDelete, toCreate := diffEdges(current, desired)
		if len(toDelete) == 0 && len(toCreate) == 0 {
			return nil
		}

		creates := make([]*AssociationEdge, 0, len(toCreate))
		now := s.now().UTC()
		for _, linkedID := range toCreate {
			e := &AssociationEdge{
				ID:        uuid.New(),
				TrackID:   track.ID,
				Edge:      edge,
				LinkedID:  linkedID,
				CreatedAt: now,
			}
			if edge == EdgeRelease {
				e.Position = track.Position
			}
			creates = append(creates, e)
		}

		return r.ApplyEdgeDiff(ctx, edge, toDelete, creates)
	})
	if err != nil {
		return &EdgeError{TrackID: track.ID, Edge: edge, Op: "reconcile", Err: err}
	}
	return nil
}

// diffEdges computes the symmetric difference between the current edge
// set and the desired linked-entity set: edge ids to delete and linked
// ids to create. Edges already matching a desired id are untouched.
func diffEdges(current []*AssociationEdge, desired []uuid.UUID) (toDelete []uuid.UUID, toCreate []uuid.UUID) {
	desiredSet := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, e := range current {
		currentSet[e.LinkedID] = struct{}{}
		if _, ok := desiredSet[e.LinkedID]; !ok {
			toDelete = append(toDelete, e.ID)
		}
	}

	for _, id := range desired {
		if _, ok := currentSet[id]; !ok {
			toCreate = append(toCreate, id)
			currentSet[id] = struct{}{}
		}
	}

	return toDelete, toCreate
}
