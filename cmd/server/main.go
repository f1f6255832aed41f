package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/skillery/backend/internal/blob"
	"github.com/skillery/backend/internal/config"
	"github.com/skillery/backend/internal/handler"
	"github.com/skillery/backend/internal/notify"
	"github.com/skillery/backend/internal/service"
	"github.com/skillery/backend/internal/storage/sqlite"
	"github.com/skillery/backend/pkg/logging"

	authpkg "github.com/skillery/backend/internal/auth"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	blobs, err := newBlobStore(cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to init blob store: %w", err)
	}

	jwtManager := authpkg.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiration())
	authenticator := authpkg.NewPasswordAuthenticator(store)
	sink := notify.NewStoreSink(store)

	groupSvc := service.NewGroupService(store, sink)
	postSvc := service.NewPostService(store, sink)
	authSvc := service.NewAuthService(authenticator, jwtManager)
	notifSvc := service.NewNotificationService(store)

	router := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Groups:        handler.NewGroupHandler(groupSvc),
		Posts:         handler.NewPostHandler(postSvc),
		Notifications: handler.NewNotificationHandler(notifSvc),
		Uploads:       handler.NewUploadHandler(blobs),
		JWTManager:    jwtManager,
	})

	addr := ":" + cfg.App.Port
	slog.Info("server listening",
		"addr", addr,
		"env", cfg.App.Env,
		"db", cfg.Database.Path,
		"blob_backend", cfg.Blob.Backend,
	)

	// h2c serves HTTP/2 without TLS so gRPC-style clients and proxies can
	// multiplex on the same port.
	srv := &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}
	return srv.ListenAndServe()
}

func newBlobStore(cfg config.BlobConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "s3":
		return blob.NewS3Store(blob.S3Config{
			Endpoint:     cfg.Endpoint,
			Region:       cfg.Region,
			Bucket:       cfg.Bucket,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			UsePathStyle: cfg.UsePathStyle,
		})
	case "local", "":
		return blob.NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
