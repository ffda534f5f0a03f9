package handler

import (
	"context"
	"io"

	"github.com/socialapi-dev/socialapi/internal/service"
)

// Pinger reports dependency readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FileUploader stores an uploaded file and returns its public URL.
type FileUploader interface {
	UploadFile(ctx context.Context, filename string, body io.Reader, contentType string) (string, error)
}

type Handler struct {
	auth   service.AuthService
	posts  service.PostService
	upload FileUploader
	health Pinger
}

func New(auth service.AuthService, posts service.PostService, upload FileUploader, health Pinger) *Handler {
	return &Handler{auth: auth, posts: posts, upload: upload, health: health}
}
