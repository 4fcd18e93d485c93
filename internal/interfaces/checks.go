package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/avelichka/bookshelf/internal/auth"
	"github.com/avelichka/bookshelf/internal/covers"
	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/database/imports"
	"github.com/avelichka/bookshelf/internal/database/progress"
	"github.com/avelichka/bookshelf/internal/database/reviews"
	"github.com/avelichka/bookshelf/internal/database/shelves"
	"github.com/avelichka/bookshelf/internal/database/users"
	"github.com/avelichka/bookshelf/internal/feed"
	"github.com/avelichka/bookshelf/internal/http"
	"github.com/avelichka/bookshelf/internal/importers"
	"github.com/avelichka/bookshelf/internal/metadata"
	"github.com/avelichka/bookshelf/internal/scheduler"
	"github.com/avelichka/bookshelf/internal/tasks"
)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.BookCatalog = (*books.Repository)(nil)
var _ http.ReviewReader = (*reviews.Repository)(nil)
var _ http.MetadataSearcher = (*metadata.Client)(nil)
var _ http.CoverCache = (*covers.Cache)(nil)
var _ http.ShelfStore = (*shelves.Repository)(nil)
var _ http.ReviewStore = (*reviews.Repository)(nil)
var _ http.ProgressStore = (*progress.Repository)(nil)
var _ http.UserStore = (*users.Repository)(nil)
var _ http.ReadingStats = (*progress.Repository)(nil)
var _ http.FeedBuilder = (*feed.Service)(nil)
var _ http.ImportPipeline = (*importers.Importer)(nil)
var _ http.ImportSessionStore = (*imports.Repository)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.BookStore = (*books.Repository)(nil)
var _ importers.MetadataClient = (*metadata.Client)(nil)
var _ importers.ShelfStore = (*shelves.Repository)(nil)
var _ importers.ReviewStore = (*reviews.Repository)(nil)
var _ importers.ProgressStore = (*progress.Repository)(nil)
var _ importers.Enricher = (*tasks.Enqueuer)(nil)

// =============================================================================
// Background Enrichment
// =============================================================================

var _ tasks.BookCatalog = (*books.Repository)(nil)
var _ tasks.MetadataFetcher = (*metadata.Client)(nil)
var _ scheduler.MissingMetadataLister = (*books.Repository)(nil)
var _ scheduler.EnrichmentQueuer = (*tasks.Enqueuer)(nil)

// =============================================================================
// Activity Feed
// =============================================================================

var _ feed.UserStore = (*users.Repository)(nil)
var _ feed.ShelfStore = (*shelves.Repository)(nil)
var _ feed.ReviewStore = (*reviews.Repository)(nil)
var _ feed.ProgressStore = (*progress.Repository)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ auth.UserStore = (*users.Repository)(nil)
var _ auth.ShelfSeeder = (*shelves.Repository)(nil)
