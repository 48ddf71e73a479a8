package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/api"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/puburl"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/repo/memory"
)

type testEnv struct {
	server *httptest.Server
	auth   *jwtauth.JWTAuth
	repo   *memory.Repository
	signer *stubSigner
}

type stubSigner struct{}

func (stubSigner) SignPut(ctx context.Context, params mediaadmin.SignPutParams) (string, error) {
	return "https://media-bucket.s3.us-east-1.amazonaws.com/" + params.Key + "?X-Amz-Signature=test", nil
}

func (stubSigner) Delete(ctx context.Context, key string) error { return nil }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.New()
	signer := &stubSigner{}
	svc, err := mediaadmin.New(
		mediaadmin.WithRepository(repo),
		mediaadmin.WithBlobSigner(signer),
		mediaadmin.WithURLResolver(puburl.New("media-bucket", "us-east-1", "")),
	)
	require.NoError(t, err)

	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	handler := api.NewHandler(svc, auth)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)

	return &testEnv{server: server, auth: auth, repo: repo, signer: signer}
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()

	_, tokenString, err := e.auth.Encode(map[string]interface{}{"sub": "user-1", "role": role})
	require.NoError(t, err)
	return tokenString
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status mediaadmin.HealthStatus
	decodeJSON(t, resp, &status)
	assert.True(t, status.Healthy)
	assert.NotNil(t, status.LatencyMS)
}

func TestPresignEndpoint(t *testing.T) {
	presignBody := func() mediaadmin.IssueUploadRequest {
		return mediaadmin.IssueUploadRequest{
			EntityType: "artists",
			EntityID:   "artist-1",
			Files: []mediaadmin.UploadRequest{
				{FileName: "cover.jpg", ContentType: "image/jpeg", FileSize: 1024},
			},
		}
	}

	t.Run("admin gets credentials", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/media/presign", env.token(t, "admin"), presignBody())
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body api.PresignResponse
		decodeJSON(t, resp, &body)
		assert.True(t, body.Success)
		require.Len(t, body.Data, 1)
		assert.Contains(t, body.Data[0].UploadURL, "X-Amz-Signature")
		assert.Contains(t, body.Data[0].StorageKey, "media/artists/artist-1/")
	})

	t.Run("viewer is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/media/presign", env.token(t, "viewer"), presignBody())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body api.PresignResponse
		decodeJSON(t, resp, &body)
		assert.False(t, body.Success)
		assert.Equal(t, "Forbidden", body.Error)
	})

	t.Run("missing token is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/media/presign", "", presignBody())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("oversized file is a bad request", func(t *testing.T) {
		env := newTestEnv(t)

		req := presignBody()
		req.Files[0].FileSize = 51 << 20

		resp := env.do(t, http.MethodPost, "/media/presign", env.token(t, "admin"), req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body api.PresignResponse
		decodeJSON(t, resp, &body)
		assert.Contains(t, body.Error, "File too large")
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		env := newTestEnv(t)

		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/media/presign", bytes.NewBufferString("{not json"))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+env.token(t, "admin"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDuplicatesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	media := &mediaadmin.MediaRecord{
		ID:           uuid.New(),
		Title:        "Existing Cover",
		ContentHash:  "h1",
		PublicURL:    "https://media-bucket.s3.us-east-1.amazonaws.com/media/artists/a1/cover.jpg",
		UploadStatus: mediaadmin.UploadStatusCompleted,
	}
	require.NoError(t, env.repo.CreateMedia(context.Background(), media))

	resp := env.do(t, http.MethodPost, "/media/duplicates", env.token(t, "admin"), api.DuplicatesRequest{Hashes: []string{"h1", "h2"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.DuplicatesResponse
	decodeJSON(t, resp, &body)
	assert.True(t, body.Success)
	require.Len(t, body.Duplicates, 1)
	assert.Equal(t, "h1", body.Duplicates[0].Hash)
	require.NotNil(t, body.Duplicates[0].ExistingKey)
	assert.Equal(t, "media/artists/a1/cover.jpg", *body.Duplicates[0].ExistingKey)
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)

	media := &mediaadmin.MediaRecord{
		ID:           uuid.New(),
		Title:        "Pending Upload",
		UploadStatus: mediaadmin.UploadStatusPending,
	}
	require.NoError(t, env.repo.CreateMedia(context.Background(), media))

	t.Run("valid transition", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/media/"+media.ID.String()+"/status", env.token(t, "admin"), api.StatusRequest{Status: "uploading"})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("illegal transition conflicts", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/media/"+media.ID.String()+"/status", env.token(t, "admin"), api.StatusRequest{Status: "pending"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown media", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/media/"+uuid.NewString()+"/status", env.token(t, "admin"), api.StatusRequest{Status: "uploading"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad media id", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/media/not-a-uuid/status", env.token(t, "admin"), api.StatusRequest{Status: "uploading"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateTrackEndpoint(t *testing.T) {
	env := newTestEnv(t)

	track := &mediaadmin.Track{ID: uuid.New(), Title: "Old Title", Position: 1}
	require.NoError(t, env.repo.CreateTrack(context.Background(), track))
	artistID := uuid.New()

	title := "New Title"
	resp := env.do(t, http.MethodPut, "/tracks/"+track.ID.String(), env.token(t, "admin"), api.UpdateTrackRequest{
		Title:     &title,
		ArtistIDs: []uuid.UUID{artistID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated mediaadmin.Track
	decodeJSON(t, resp, &updated)
	assert.Equal(t, "New Title", updated.Title)

	edges, err := env.repo.ListEdges(context.Background(), track.ID, mediaadmin.EdgeArtist)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, artistID, edges[0].LinkedID)
}

func TestDeleteMediaEndpoint(t *testing.T) {
	env := newTestEnv(t)

	media := &mediaadmin.MediaRecord{
		ID:           uuid.New(),
		Title:        "Doomed",
		PublicURL:    "https://media-bucket.s3.us-east-1.amazonaws.com/media/artists/a1/doomed.jpg",
		UploadStatus: mediaadmin.UploadStatusCompleted,
	}
	require.NoError(t, env.repo.CreateMedia(context.Background(), media))

	resp := env.do(t, http.MethodDelete, "/media/"+media.ID.String(), env.token(t, "admin"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err := env.repo.GetMedia(context.Background(), media.ID)
	assert.ErrorIs(t, err, mediaadmin.ErrMediaNotFound)
}
