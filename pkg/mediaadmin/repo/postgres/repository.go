package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
)

// DBTX is an interface that allows us to use either a connection pool
// or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

// Repository implements mediaadmin.Repository using PostgreSQL
type Repository struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository over an existing connection
// or transaction.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "track_artists") ||
				strings.Contains(pgErr.ConstraintName, "track_releases") {
				return fmt.Errorf("association already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *mediaadmin.MediaRecord) error {
	query := `
		INSERT INTO media (
			id, title, content_hash, storage_key, public_url,
			content_type, file_size, upload_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		media.ID, media.Title, media.ContentHash, media.StorageKey, media.PublicURL,
		media.ContentType, media.FileSize, media.UploadStatus, media.CreatedAt, media.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create media", err)
	}

	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*mediaadmin.MediaRecord, error) {
	query := `
        SELECT id, title, content_hash, storage_key, public_url,
               content_type, file_size, upload_status, created_at, updated_at
        FROM media WHERE id = $1 AND deleted_at IS NULL`

	var media mediaadmin.MediaRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&media.ID, &media.Title, &media.ContentHash, &media.StorageKey, &media.PublicURL,
		&media.ContentType, &media.FileSize, &media.UploadStatus, &media.CreatedAt, &media.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediaadmin.ErrMediaNotFound
		}
		return nil, r.handlePostgresError("get media", err)
	}

	return &media, nil
}

func (r *Repository) GetMediaByHashes(ctx context.Context, hashes []string) ([]*mediaadmin.MediaRecord, error) {
	query := `
        SELECT id, title, content_hash, storage_key, public_url,
               content_type, file_size, upload_status, created_at, updated_at
        FROM media WHERE content_hash = ANY($1) AND deleted_at IS NULL
        ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, hashes)
	if err != nil {
		return nil, r.handlePostgresError("get media by hashes", err)
	}
	defer rows.Close()

	var records []*mediaadmin.MediaRecord
	for rows.Next() {
		var media mediaadmin.MediaRecord
		if err := rows.Scan(
			&media.ID, &media.Title, &media.ContentHash, &media.StorageKey, &media.PublicURL,
			&media.ContentType, &media.FileSize, &media.UploadStatus, &media.CreatedAt, &media.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &media)
	}

	return records, rows.Err()
}

func (r *Repository) UpdateMediaStatus(ctx context.Context, id uuid.UUID, status mediaadmin.MediaUploadStatus) error {
	query := `UPDATE media SET upload_status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return r.handlePostgresError("update media status", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaadmin.ErrMediaNotFound
	}
	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	// Soft delete: set deleted_at, keep the row for hash history
	query := `UPDATE media SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete media", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaadmin.ErrMediaNotFound
	}
	return nil
}

// Track operations

func (r *Repository) GetTrack(ctx context.Context, id uuid.UUID) (*mediaadmin.Track, error) {
	query := `SELECT id, title, position, created_at, updated_at FROM tracks WHERE id = $1`

	var track mediaadmin.Track
	err := r.db.QueryRow(ctx, query, id).Scan(
		&track.ID, &track.Title, &track.Position, &track.CreatedAt, &track.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediaadmin.ErrTrackNotFound
		}
		return nil, r.handlePostgresError("get track", err)
	}

	return &track, nil
}

func (r *Repository) UpdateTrack(ctx context.Context, track *mediaadmin.Track) error {
	query := `UPDATE tracks SET title = $2, position = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, track.ID, track.Title, track.Position, track.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update track", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaadmin.ErrTrackNotFound
	}
	return nil
}

// Association edge operations

func edgeTable(edge mediaadmin.EdgeType) (table, linkedColumn string, err error) {
	switch edge {
	case mediaadmin.EdgeArtist:
		return "track_artists", "artist_id", nil
	case mediaadmin.EdgeRelease:
		return "track_releases", "release_id", nil
	default:
		return "", "", fmt.Errorf("unknown edge type %q", edge)
	}
}

func (r *Repository) ListEdges(ctx context.Context, trackID uuid.UUID, edge mediaadmin.EdgeType) ([]*mediaadmin.AssociationEdge, error) {
	table, linkedColumn, err := edgeTable(edge)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, track_id, %s, position, created_at FROM %s WHERE track_id = $1 ORDER BY created_at`,
		linkedColumn, table)
	if edge == mediaadmin.EdgeArtist {
		query = fmt.Sprintf(`SELECT id, track_id, %s, 0, created_at FROM %s WHERE track_id = $1 ORDER BY created_at`,
			linkedColumn, table)
	}

	rows, err := r.db.Query(ctx, query, trackID)
	if err != nil {
		return nil, r.handlePostgresError("list edges", err)
	}
	defer rows.Close()

	var edges []*mediaadmin.AssociationEdge
	for rows.Next() {
		e := &mediaadmin.AssociationEdge{Edge: edge}
		if err := rows.Scan(&e.ID, &e.TrackID, &e.LinkedID, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// ApplyEdgeDiff pipelines the delete and the inserts as one batch round
// trip, so both sides of the diff are issued together.
func (r *Repository) ApplyEdgeDiff(ctx context.Context, edge mediaadmin.EdgeType, deleteIDs []uuid.UUID, creates []*mediaadmin.AssociationEdge) error {
	table, linkedColumn, err := edgeTable(edge)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	if len(deleteIDs) > 0 {
		batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, table), deleteIDs)
	}
	for _, e := range creates {
		if edge == mediaadmin.EdgeRelease {
			batch.Queue(
				fmt.Sprintf(`INSERT INTO %s (id, track_id, %s, position, created_at) VALUES ($1, $2, $3, $4, $5)`, table, linkedColumn),
				e.ID, e.TrackID, e.LinkedID, e.Position, e.CreatedAt)
		} else {
			batch.Queue(
				fmt.Sprintf(`INSERT INTO %s (id, track_id, %s, created_at) VALUES ($1, $2, $3, $4)`, table, linkedColumn),
				e.ID, e.TrackID, e.LinkedID, e.CreatedAt)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return r.handlePostgresError("apply edge diff", err)
		}
	}

	return results.Close()
}

// WithTx runs fn against a repository bound to a serializable
// transaction. When the repository is already transaction-bound, fn
// runs in that transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(mediaadmin.Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(New(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// Ping issues one trivial liveness query against the store.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return err
	}
	return nil
}
