// Package interfaces documents the core abstractions used throughout the application.
//
// Each consumer package declares the small interfaces it needs (the HTTP
// controllers in internal/http, the import pipeline in internal/importers,
// the background enrichment in internal/tasks and internal/scheduler), and
// the concrete repositories under internal/database satisfy them. This file
// tree groups the checks so a missing method surfaces as a build error here
// rather than a wiring error in internal/entrypoint.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookCatalog / BookStore: book lookup and creation (internal/http/books.go, internal/importers/goodreads.go)
//   - ShelfStore: shelf management and assignment (internal/http/shelves.go, internal/importers/goodreads.go)
//   - ReviewStore / ReviewReader: review writes and aggregates (internal/http/reviews.go, internal/http/books.go)
//   - ProgressStore / ReadingStats: reading progress and per-user stats (internal/http/progress.go, internal/http/users.go)
//   - UserStore: accounts and the follow graph (internal/http/users.go, internal/auth/service.go)
//   - ImportSessionStore: import audit records (internal/http/import_goodreads.go)
//
// ## External Service Interfaces
//
//   - MetadataClient / MetadataFetcher / MetadataSearcher: OpenLibrary lookups (internal/metadata/openlibrary.go)
//   - CoverCache: local cover image caching (internal/http/books.go)
//
// ## Background Work Interfaces
//
//   - Enricher / EnrichmentQueuer: enqueue metadata enrichment (internal/importers/goodreads.go, internal/scheduler/enrichment.go)
//   - MissingMetadataLister: candidates for the scheduled sweep (internal/scheduler/enrichment.go)
//
// # Adding a New Metadata Provider
//
// To add a new source of book metadata (e.g., Google Books):
//
//  1. Implement the fetch and search methods in a new client under internal/metadata/
//
//     type GoogleBooksClient struct {
//         apiKey     string
//         httpClient *http.Client
//     }
//
//     func (c *GoogleBooksClient) FetchByISBN(ctx context.Context, isbn string) (*BookMetadata, error)
//     func (c *GoogleBooksClient) Search(ctx context.Context, query string, limit int) ([]BookMetadata, error)
//
//  2. Add compile-time checks in checks.go:
//
//     var _ importers.MetadataClient = (*GoogleBooksClient)(nil)
//     var _ tasks.MetadataFetcher = (*GoogleBooksClient)(nil)
//
//  3. Swap it in where the OpenLibrary client is wired in internal/entrypoint
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create a sub-package: internal/database/<domain>/
//
//  2. Define the repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the consumer interface next to the code that uses it
//
//  4. Add a compile-time check here:
//
//     var _ http.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
