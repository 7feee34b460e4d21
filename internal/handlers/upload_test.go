package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmamangal/padmamangal-backend/internal/media"
)

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadReturnsPublicURL(t *testing.T) {
	uploader, err := media.NewDiskUploader(t.TempDir())
	require.NoError(t, err)
	h := &Upload{Uploader: uploader, DefaultHost: "localhost:5000"}

	body, contentType := multipartBody(t, "file", "family photo.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Host = "localhost:5000"

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.URL, "http://localhost:5000/uploads/")
	assert.Contains(t, resp.URL, "family_photo.jpg", "spaces in filenames are sanitized")
}

func TestUploadHonorsForwardedHeaders(t *testing.T) {
	uploader, err := media.NewDiskUploader(t.TempDir())
	require.NoError(t, err)
	h := &Upload{Uploader: uploader, DefaultHost: "localhost:5000"}

	body, contentType := multipartBody(t, "file", "doc.pdf", "pdfdata")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Forwarded-Host", "backend.padmamangal.app")
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.URL, "https://backend.padmamangal.app/uploads/")
}

func TestUploadWithoutFile(t *testing.T) {
	uploader, err := media.NewDiskUploader(t.TempDir())
	require.NoError(t, err)
	h := &Upload{Uploader: uploader, DefaultHost: "localhost:5000"}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no file uploaded", resp.Error)
}
