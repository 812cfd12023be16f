package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukeshiit422/epemcell-backend/internal/asset"
)

type stubRepo struct{}

func (stubRepo) Create(_ context.Context, filename, url string) (*asset.Asset, error) {
	return &asset.Asset{ID: 1, Filename: filename, URL: url, CreatedAt: time.Now()}, nil
}

func (stubRepo) List(_ context.Context) ([]asset.Asset, error) {
	return []asset.Asset{{ID: 1, Filename: "a.txt", URL: "https://media.s3.amazonaws.com/1-a.txt"}}, nil
}

func (stubRepo) GetByID(_ context.Context, _ int64) (*asset.Asset, error) {
	return nil, asset.ErrNotFound
}

func (stubRepo) Delete(_ context.Context, _ int64) error { return nil }

type stubObjects struct{}

func (stubObjects) Upload(_ context.Context, _ string, r io.Reader, _ int64, _ string) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (stubObjects) Delete(_ context.Context, _ string) error { return nil }

func (stubObjects) PublicURL(key string) string { return "https://media.s3.amazonaws.com/" + key }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := asset.NewService(stubRepo{}, stubObjects{})
	return newRouter(asset.NewHandler(svc, t.TempDir(), 1<<20))
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_AssetRoutes(t *testing.T) {
	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/upload", http.StatusOK},
		{http.MethodPost, "/upload", http.StatusBadRequest},
		{http.MethodDelete, "/upload/12", http.StatusNotFound},
		{http.MethodPut, "/upload", http.StatusMethodNotAllowed},
	}

	router := testRouter(t)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	testRouter(t).ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"/upload/{id}"`)
}
