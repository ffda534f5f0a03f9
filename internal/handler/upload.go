package handler

import (
	"net/http"

	"github.com/socialapi-dev/socialapi/internal/api"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/logger"
	"github.com/socialapi-dev/socialapi/internal/middleware"
)

// uploads larger than this are rejected before buffering
const maxUploadSize = 10 << 20

// Upload stores a multipart file and returns its download URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r); !ok {
		api.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.WriteError(w, errors.BadRequest("Invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, errors.BadRequest("Missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileURL, err := h.upload.UploadFile(r.Context(), header.Filename, file, contentType)
	if err != nil {
		logger.Log.Error("failed to upload file", "filename", header.Filename, "error", err)
		api.WriteError(w, &errors.ErrorWithStatusCode{
			Message:    "There was an error uploading the file.",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.UploadResponse{
		Detail:  "Successfully uploaded file",
		FileURL: fileURL,
	})
}
