package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
)

// Handler exposes the media pipeline over HTTP.
type Handler struct {
	service mediaadmin.Service
	auth    *jwtauth.JWTAuth
}

// NewHandler creates a new API handler
func NewHandler(service mediaadmin.Service, auth *jwtauth.JWTAuth) *Handler {
	return &Handler{service: service, auth: auth}
}

// Routes returns the API routes. The health endpoint is unauthenticated;
// everything else carries JWT verification plus principal resolution,
// with the final authorization decision made inside the service.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(h.auth))
		r.Use(PrincipalResolver)

		r.Post("/media/presign", h.PresignUploads)
		r.Post("/media/duplicates", h.FindDuplicates)
		r.Post("/media/register", h.RegisterUpload)
		r.Post("/media/{mediaID}/status", h.MarkUploadStatus)
		r.Delete("/media/{mediaID}", h.DeleteMedia)

		r.Put("/tracks/{trackID}", h.UpdateTrack)
	})

	return r
}

// PresignResponse is the response body for credential issuance
type PresignResponse struct {
	Success bool                            `json:"success"`
	Data    []mediaadmin.PresignedCredential `json:"data,omitempty"`
	Error   string                          `json:"error,omitempty"`
}

// PresignUploads issues presigned upload credentials for a batch of files
func (h *Handler) PresignUploads(w http.ResponseWriter, r *http.Request) {
	var req mediaadmin.IssueUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, PresignResponse{Error: "Invalid request body"})
		return
	}

	creds, err := h.service.IssueUploadCredentials(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		status, msg := h.mapServiceError("presign uploads", err)
		render.Status(r, status)
		render.JSON(w, r, PresignResponse{Error: msg})
		return
	}

	render.JSON(w, r, PresignResponse{Success: true, Data: creds})
}

// DuplicatesRequest is the request body for duplicate detection
type DuplicatesRequest struct {
	Hashes []string `json:"hashes"`
}

// DuplicatesResponse is the response body for duplicate detection
type DuplicatesResponse struct {
	Success    bool                       `json:"success"`
	Duplicates []mediaadmin.DuplicateInfo `json:"duplicates"`
	Error      string                     `json:"error,omitempty"`
}

// FindDuplicates reports already-uploaded media matching the submitted
// content hashes. A store failure keeps the duplicate list empty and
// sets the error field so callers can tell it apart from "no matches".
func (h *Handler) FindDuplicates(w http.ResponseWriter, r *http.Request) {
	var req DuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, DuplicatesResponse{Duplicates: []mediaadmin.DuplicateInfo{}, Error: "Invalid request body"})
		return
	}

	duplicates, err := h.service.FindDuplicates(r.Context(), PrincipalFromContext(r.Context()), req.Hashes)
	if err != nil {
		status, msg := h.mapServiceError("find duplicates", err)
		render.Status(r, status)
		render.JSON(w, r, DuplicatesResponse{Duplicates: []mediaadmin.DuplicateInfo{}, Error: msg})
		return
	}

	render.JSON(w, r, DuplicatesResponse{Success: true, Duplicates: duplicates})
}

// RegisterUpload persists the media record for a finished upload
func (h *Handler) RegisterUpload(w http.ResponseWriter, r *http.Request) {
	var req mediaadmin.RegisterUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	media, err := h.service.RegisterUpload(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		status, msg := h.mapServiceError("register upload", err)
		http.Error(w, msg, status)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, media)
}

// StatusRequest is the request body for upload status updates
type StatusRequest struct {
	Status string `json:"status"`
}

// MarkUploadStatus advances a media record's upload lifecycle
func (h *Handler) MarkUploadStatus(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.service.MarkUploadStatus(r.Context(), PrincipalFromContext(r.Context()), mediaID, mediaadmin.MediaUploadStatus(req.Status))
	if err != nil {
		status, msg := h.mapServiceError("mark upload status", err)
		http.Error(w, msg, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMedia soft-deletes a media record and removes its blob
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteMedia(r.Context(), PrincipalFromContext(r.Context()), mediaID); err != nil {
		status, msg := h.mapServiceError("delete media", err)
		http.Error(w, msg, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateTrackRequest is the request body for track updates. Omitted
// association arrays leave that edge type untouched; explicit empty
// arrays clear it.
type UpdateTrackRequest struct {
	Title      *string     `json:"title,omitempty"`
	Position   *int        `json:"position,omitempty"`
	ArtistIDs  []uuid.UUID `json:"artist_ids,omitempty"`
	ReleaseIDs []uuid.UUID `json:"release_ids,omitempty"`
}

// UpdateTrack applies field updates and reconciles association edges
func (h *Handler) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	trackID, err := uuid.Parse(chi.URLParam(r, "trackID"))
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return
	}

	var req UpdateTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	track, err := h.service.UpdateTrack(r.Context(), PrincipalFromContext(r.Context()), mediaadmin.UpdateTrackRequest{
		TrackID:    trackID,
		Title:      req.Title,
		Position:   req.Position,
		ArtistIDs:  req.ArtistIDs,
		ReleaseIDs: req.ReleaseIDs,
	})
	if err != nil {
		status, msg := h.mapServiceError("update track", err)
		http.Error(w, msg, status)
		return
	}

	render.JSON(w, r, track)
}

// Health reports durable-store liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.service.CheckHealth(r.Context())
	if !status.Healthy {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// mapServiceError converts service errors into HTTP status codes and
// user-safe messages. Unexpected causes are logged here and surfaced as
// a generic message so SDK and driver internals never reach the client.
func (h *Handler) mapServiceError(op string, err error) (int, string) {
	var vErr *mediaadmin.ValidationError
	switch {
	case errors.Is(err, mediaadmin.ErrNotAuthorized):
		return http.StatusForbidden, "Forbidden"
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Reason
	case errors.Is(err, mediaadmin.ErrBucketNotConfigured):
		slog.Error("Storage misconfigured", "op", op, "error", err)
		return http.StatusInternalServerError, "Storage is not configured"
	case errors.Is(err, mediaadmin.ErrMediaNotFound):
		return http.StatusNotFound, "Media not found"
	case errors.Is(err, mediaadmin.ErrTrackNotFound):
		return http.StatusNotFound, "Track not found"
	case errors.Is(err, mediaadmin.ErrInvalidStatusTransition):
		return http.StatusConflict, "Invalid upload status transition"
	default:
		slog.Error("Request failed", "op", op, "error", err)
		return http.StatusInternalServerError, "Internal server error"
	}
}
