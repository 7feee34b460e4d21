package handlers

import (
	"net/http"

	"github.com/padmamangal/padmamangal-backend/internal/media"
)

// maxUploadBytes caps a single attachment at 25MB.
const maxUploadBytes = 25 << 20

type UploadResponse struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Upload accepts one multipart file and stores it through the configured
// uploader, answering with the public URL the chat message should carry.
type Upload struct {
	Uploader    media.Uploader
	DefaultHost string
}

func (h *Upload) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Error: "failed to parse form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Error: "no file uploaded"})
		return
	}
	defer file.Close()

	contentType := media.ResolveContentType(header.Header.Get("Content-Type"), header.Filename)
	base := media.RequestBase(r, h.DefaultHost)

	url, err := h.Uploader.Upload(r.Context(), base, header.Filename, contentType, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, UploadResponse{Error: "failed to store file"})
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{URL: url})
}
