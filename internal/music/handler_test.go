package music

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartUpload builds a multipart body with one file part and form fields.
func multipartUpload(t *testing.T, filename, contentType, payload string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = io.WriteString(part, payload)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func uploadFields() map[string]string {
	return map[string]string{
		"title":    "A",
		"duration": "200",
		"albumId":  "1",
	}
}

func TestUploadHandler_NonAudioContentType(t *testing.T) {
	store := newFakeStore()
	svc := NewService(newFakeRepo(), store)
	h := NewHandler(svc, nil)

	body, contentType := multipartUpload(t, "track.txt", "text/plain", "not audio", uploadFields())
	req := httptest.NewRequest(http.MethodPost, "/tracks/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, store.objects)
}

func TestUploadHandler_MissingFile(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), newFakeStore()), nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "A"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/tracks/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_InvalidDuration(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), newFakeStore()), nil)

	fields := uploadFields()
	fields["duration"] = "-5"
	body, contentType := multipartUpload(t, "track.flac", "audio/flac", "bytes", fields)
	req := httptest.NewRequest(http.MethodPost, "/tracks/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_UnknownAlbum(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	repo.createErr = ErrAlbumNotFound
	h := NewHandler(NewService(repo, store), nil)

	fields := uploadFields()
	fields["albumId"] = "999"
	body, contentType := multipartUpload(t, "track.flac", "audio/flac", "bytes", fields)
	req := httptest.NewRequest(http.MethodPost, "/tracks/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	// Compensation ran: the object written before the failed commit is gone.
	assert.Empty(t, store.objects)
	assert.Len(t, store.removed, 1)
}

func TestUploadHandler_StorageUnavailable(t *testing.T) {
	store := newFakeStore()
	store.putErr = fmt.Errorf("connection refused")
	h := NewHandler(NewService(newFakeRepo(), store), nil)

	body, contentType := multipartUpload(t, "track.flac", "audio/flac", "bytes", uploadFields())
	req := httptest.NewRequest(http.MethodPost, "/tracks/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDeleteHandler_UnknownTrack(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), newFakeStore()), nil)

	req := httptest.NewRequest(http.MethodDelete, "/tracks/999", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "999")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.DeleteTrack(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHandler_InvalidID(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), newFakeStore()), nil)

	req := httptest.NewRequest(http.MethodDelete, "/tracks/abc", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.DeleteTrack(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
