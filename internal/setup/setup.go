// Package setup wires configuration into concrete dependencies.
package setup

import (
	"context"

	"github.com/socialapi-dev/socialapi/internal/config"
	"github.com/socialapi-dev/socialapi/internal/handler"
	"github.com/socialapi-dev/socialapi/internal/imagegen"
	"github.com/socialapi-dev/socialapi/internal/mailer"
	"github.com/socialapi-dev/socialapi/internal/middleware"
	"github.com/socialapi-dev/socialapi/internal/objstore"
	"github.com/socialapi-dev/socialapi/internal/password"
	"github.com/socialapi-dev/socialapi/internal/service"
	"github.com/socialapi-dev/socialapi/internal/storage/pg"
	"github.com/socialapi-dev/socialapi/internal/task"
	"github.com/socialapi-dev/socialapi/internal/token"
)

// Dependencies holds everything the router and main need.
type Dependencies struct {
	Config  *config.Config
	Storage *pg.Storage
	Tasks   *task.Runner
	Handler *handler.Handler
	AuthMw  *middleware.Auth
}

// New initializes all dependencies. The task runner is returned unstarted;
// main decides its lifecycle.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := objstore.New(ctx, &cfg.Public.ObjectStorage, cfg.Private.StorageKeyID, cfg.Private.StorageKey)
	if err != nil {
		return nil, err
	}

	tasks := task.NewRunner()
	codec := token.New(cfg.JwtKey(), cfg.Public.AccessTokenTTL.Std(), cfg.Public.ConfirmationTokenTTL.Std())
	mail := mailer.New(&cfg.Public.Mailgun, cfg.Private.MailgunAPIKey)
	images := imagegen.New(&cfg.Public.ImageGen, cfg.Private.ImageGenKey)

	auth := service.NewAuth(storage, codec, mail, tasks, password.Bcrypt{}, cfg.Public.BaseURL)
	posts := service.NewPost(storage, images, tasks)
	upload := service.NewUpload(store)

	h := handler.New(auth, posts, upload, storage)

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Tasks:   tasks,
		Handler: h,
		AuthMw:  middleware.NewAuth(auth),
	}, nil
}
