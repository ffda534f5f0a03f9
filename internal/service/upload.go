package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Upload struct {
	store ObjectStorage
}

func NewUpload(store ObjectStorage) *Upload {
	return &Upload{store: store}
}

// UploadFile stores the file under a collision-free key and returns its
// download URL. The original filename is kept as the key suffix so downloads
// keep a recognizable name.
func (u *Upload) UploadFile(ctx context.Context, filename string, body io.Reader, contentType string) (string, error) {
	key := storageKey(filename)
	return u.store.Upload(ctx, key, body, contentType)
}

func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%s-%s", d.Year(), d.Month(), uuid.New(), filename)
}
