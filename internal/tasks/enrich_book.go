package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// BookCatalog is the slice of the book repository the enrichment task needs.
type BookCatalog interface {
	GetByID(id uint) (*entities.Book, error)
	ApplyMetadata(bookID uint, md *metadata.BookMetadata) error
}

// MetadataFetcher looks up book metadata by ISBN.
type MetadataFetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error)
}

// EnrichBookTask backfills one book's metadata from OpenLibrary. Queued for
// books that were created minimally during an import, when the metadata
// service was down or returned nothing.
type EnrichBookTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(catalog BookCatalog, fetcher MetadataFetcher) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		book, err := catalog.GetByID(task.BookID)
		if err != nil {
			return fmt.Errorf("load book %d: %w", task.BookID, err)
		}
		if book.ISBN == "" {
			log.Printf("[TASK] Book %d (%s) has no ISBN, nothing to enrich", book.ID, book.Title)
			return nil
		}
		if book.OpenLibraryID != "" {
			log.Printf("[TASK] Book %d (%s) already enriched", book.ID, book.Title)
			return nil
		}

		md, err := fetcher.FetchByISBN(ctx, book.ISBN)
		if err != nil {
			return fmt.Errorf("fetch metadata for ISBN %s: %w", book.ISBN, err)
		}
		if md == nil {
			log.Printf("[TASK] No metadata found for book %d (ISBN %s)", book.ID, book.ISBN)
			return nil
		}

		if err := catalog.ApplyMetadata(book.ID, md); err != nil {
			return fmt.Errorf("apply metadata to book %d: %w", book.ID, err)
		}

		log.Printf("[TASK] Enriched book %d (%s) from ISBN %s", book.ID, book.Title, book.ISBN)
		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(catalog BookCatalog, fetcher MetadataFetcher) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(catalog, fetcher))
}

// Enqueuer hands enrichment work to the queue. It satisfies the import
// pipeline's enricher dependency.
type Enqueuer struct {
	client *Client
}

func NewEnqueuer(client *Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueEnrichment queues a metadata backfill for the given book.
func (e *Enqueuer) EnqueueEnrichment(bookID uint) error {
	_, err := e.client.Add(EnrichBookTask{BookID: bookID}).Save()
	return err
}
