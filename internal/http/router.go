package http

import (
	"github.com/gin-gonic/gin"

	"github.com/avelichka/bookshelf/internal/auth"
	"github.com/avelichka/bookshelf/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Version  string

	// Authentication
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Goodreads import
	ImportPipeline ImportPipeline
	ImportSessions ImportSessionStore
	MaxUploadBytes int64

	// Catalog and social stores
	BookCatalog      BookCatalog
	MetadataSearcher MetadataSearcher
	CoverCache       CoverCache
	ShelfStore       ShelfStore
	ReviewStore      ReviewStore
	ReviewReader     ReviewReader
	ProgressStore    ProgressStore
	UserStore        UserStore
	ReadingStats     ReadingStats
	FeedBuilder      FeedBuilder
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before sessions so the session context is not
	// overwritten by CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}
	router.Use(cfg.AuthMiddleware.Handler())
	requireAuth := cfg.AuthMiddleware.RequireAuth()

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/api")

	cfg.AuthController.RegisterRoutes(api.Group("/auth"), requireAuth)

	importController := NewGoodreadsImportController(cfg.ImportPipeline, cfg.ImportSessions, cfg.MaxUploadBytes)
	imports := api.Group("/import", requireAuth)
	imports.POST("/goodreads", importController.Import)
	imports.GET("/sessions", importController.History)

	booksController := NewBooksController(cfg.BookCatalog, cfg.ReviewReader, cfg.MetadataSearcher, cfg.CoverCache)
	api.GET("/books/search", booksController.Search)
	api.GET("/books/popular", booksController.Popular)
	api.GET("/books/lookup", booksController.Lookup)
	api.GET("/books/:id", booksController.Get)
	api.GET("/books/:id/reviews", booksController.Reviews)
	api.GET("/books/:id/cover", booksController.Cover)

	shelvesController := NewShelvesController(cfg.ShelfStore)
	shelvesGroup := api.Group("/shelves", requireAuth)
	shelvesGroup.GET("", shelvesController.List)
	shelvesGroup.POST("", shelvesController.Create)
	shelvesGroup.DELETE("/:id", shelvesController.Delete)
	shelvesGroup.POST("/:id/books", shelvesController.AddBook)
	shelvesGroup.DELETE("/:id/books/:bookId", shelvesController.RemoveBook)

	reviewsController := NewReviewsController(cfg.ReviewStore)
	api.PUT("/books/:id/review", requireAuth, reviewsController.Upsert)
	api.DELETE("/reviews/:id", requireAuth, reviewsController.Delete)

	progressController := NewProgressController(cfg.ProgressStore)
	api.GET("/books/:id/progress", requireAuth, progressController.Get)
	api.PUT("/books/:id/progress", requireAuth, progressController.UpdatePage)
	api.POST("/books/:id/progress/start", requireAuth, progressController.Start)
	api.POST("/books/:id/progress/finish", requireAuth, progressController.Finish)
	api.GET("/progress/reading", requireAuth, progressController.Reading)

	usersController := NewUsersController(cfg.UserStore, cfg.ReadingStats, cfg.FeedBuilder)
	api.GET("/users/:id", usersController.Get)
	api.GET("/users/:id/followers", usersController.Followers)
	api.GET("/users/:id/following", usersController.Following)
	api.PUT("/users/me", requireAuth, usersController.UpdateProfile)
	api.POST("/users/:id/follow", requireAuth, usersController.Follow)
	api.DELETE("/users/:id/follow", requireAuth, usersController.Unfollow)
	api.GET("/feed", requireAuth, usersController.Feed)

	return router
}
