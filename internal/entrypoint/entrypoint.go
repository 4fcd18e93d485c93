// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelichka/bookshelf/internal/auth"
	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/covers"
	"github.com/avelichka/bookshelf/internal/database"
	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/database/imports"
	"github.com/avelichka/bookshelf/internal/database/progress"
	"github.com/avelichka/bookshelf/internal/database/reviews"
	"github.com/avelichka/bookshelf/internal/database/shelves"
	"github.com/avelichka/bookshelf/internal/database/users"
	"github.com/avelichka/bookshelf/internal/feed"
	http_controllers "github.com/avelichka/bookshelf/internal/http"
	"github.com/avelichka/bookshelf/internal/importers"
	"github.com/avelichka/bookshelf/internal/metadata"
	"github.com/avelichka/bookshelf/internal/scheduler"
	"github.com/avelichka/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds the full application and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	booksRepo := books.NewRepository(db.DB)
	shelvesRepo := shelves.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)
	importsRepo := imports.NewRepository(db.DB)

	openLibrary := metadata.NewClient(cfg.OpenLibrary)

	// Task queue and enrichment sweep
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var enricher importers.Enricher
	var enrichScheduler *scheduler.EnrichmentScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewEnrichBookQueue(booksRepo, openLibrary),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		enqueuer := tasks.NewEnqueuer(taskClient)
		enricher = enqueuer

		enrichScheduler = scheduler.NewEnrichmentScheduler(booksRepo, enqueuer, cfg.Enrichment)
		if err := enrichScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start enrichment scheduler: %v", err)
		}
	}

	importer := importers.NewImporter(booksRepo, openLibrary, shelvesRepo, reviewsRepo, progressRepo, enricher)

	// Authentication
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authService := auth.NewService(usersRepo, shelvesRepo, cfg.Auth)
	loginLimiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	authController := auth.NewController(authService, sessionManager, loginLimiter)
	authMiddleware := auth.NewMiddleware(sessionManager)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	feedService := feed.NewService(usersRepo, shelvesRepo, reviewsRepo, progressRepo)

	var coverCache http_controllers.CoverCache
	if cfg.Covers.Enabled {
		cache, err := covers.NewCache(cfg.Covers.CacheDir)
		if err != nil {
			log.Fatalf("Failed to initialize cover cache: %v", err)
		}
		coverCache = cache
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database: db,
		Version:  version,

		AuthController: authController,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,

		ImportPipeline: importer,
		ImportSessions: importsRepo,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,

		BookCatalog:      booksRepo,
		MetadataSearcher: openLibrary,
		CoverCache:       coverCache,
		ShelfStore:       shelvesRepo,
		ReviewStore:      reviewsRepo,
		ReviewReader:     reviewsRepo,
		ProgressStore:    progressRepo,
		UserStore:        usersRepo,
		ReadingStats:     progressRepo,
		FeedBuilder:      feedService,
	})

	Serve(router, cfg, func(ctx context.Context) {
		loginLimiter.Stop()
		if enrichScheduler != nil {
			enrichScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	})
}
