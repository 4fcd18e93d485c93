package importers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/goodreads"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// BookStore is the catalog collaborator. FindByISBN returns (nil, nil) when
// no book matches; Create deduplicates internally by ISBN and OpenLibrary id.
type BookStore interface {
	FindByISBN(isbn string) (*entities.Book, error)
	Create(fields books.CreateFields) (*entities.Book, error)
}

// MetadataClient is the external book-data collaborator.
type MetadataClient interface {
	FetchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error)
}

// ShelfStore resolves and assigns default shelves. FindDefault returns
// (nil, nil) when the user has no shelf of that kind; Assign is idempotent.
type ShelfStore interface {
	FindDefault(userID uint, kind entities.ShelfKind) (*entities.Shelf, error)
	Assign(shelfID, bookID, userID uint) error
}

// ReviewStore upserts the rating for (user, book), never duplicating.
type ReviewStore interface {
	UpsertRating(userID, bookID uint, rating int) error
}

// ProgressStore upserts reading progress for (user, book).
type ProgressStore interface {
	SetFinished(userID, bookID uint, finishedAt time.Time, currentPage int) error
}

// Enricher queues follow-up metadata enrichment for minimally-created books.
// Optional: a nil Enricher disables queueing.
type Enricher interface {
	EnqueueEnrichment(bookID uint) error
}

// OutcomeStatus is the per-record result bucket.
type OutcomeStatus string

const (
	StatusImported OutcomeStatus = "imported"
	StatusError    OutcomeStatus = "error"
)

// WriteOutcome reports which best-effort write sub-steps succeeded for an
// imported record.
type WriteOutcome struct {
	ShelfAssigned bool `json:"shelf_assigned"`
	ReviewSaved   bool `json:"review_saved"`
	ProgressSaved bool `json:"progress_saved"`
}

// Outcome is the result of importing one record.
type Outcome struct {
	Title  string        `json:"title"`
	Author string        `json:"author"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Steps  *WriteOutcome `json:"steps,omitempty"`
}

// Summary aggregates an import run in input order. Imported plus Skipped
// always equals len(Books), and len(Errors) equals the number of outcomes
// with StatusError; "skipped" and "errored" are the same bucket.
type Summary struct {
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Errors   []string  `json:"errors"`
	Books    []Outcome `json:"books"`
}

// Importer runs the Goodreads reconcile-and-write pipeline.
type Importer struct {
	books    BookStore
	metadata MetadataClient
	shelves  ShelfStore
	reviews  ReviewStore
	progress ProgressStore
	enricher Enricher
}

// NewImporter creates an import pipeline over the given collaborators.
// enricher may be nil.
func NewImporter(books BookStore, metadata MetadataClient, shelves ShelfStore, reviews ReviewStore, progress ProgressStore, enricher Enricher) *Importer {
	return &Importer{
		books:    books,
		metadata: metadata,
		shelves:  shelves,
		reviews:  reviews,
		progress: progress,
		enricher: enricher,
	}
}

// Run imports the records for a user, sequentially and in order. A failed
// record is recorded and does not affect later records; rows written before
// a later failure stay committed.
func (i *Importer) Run(ctx context.Context, userID uint, records []goodreads.Record) Summary {
	summary := Summary{
		Errors: []string{},
		Books:  make([]Outcome, 0, len(records)),
	}

	for _, rec := range records {
		book, err := i.Resolve(ctx, rec)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", rec.Title, err))
			summary.Books = append(summary.Books, Outcome{
				Title:  rec.Title,
				Author: rec.Author,
				Status: StatusError,
				Reason: err.Error(),
			})
			continue
		}

		steps := i.write(userID, rec, book)
		summary.Imported++
		summary.Books = append(summary.Books, Outcome{
			Title:  rec.Title,
			Author: rec.Author,
			Status: StatusImported,
			Steps:  &steps,
		})
	}

	return summary
}

// Resolve maps a record to its canonical book. Strict precedence, first
// success wins: local lookup by ISBN, external metadata lookup, minimal
// creation from the record itself. Metadata failures never propagate.
func (i *Importer) Resolve(ctx context.Context, rec goodreads.Record) (*entities.Book, error) {
	isbn := rec.ISBN()

	if isbn != "" {
		book, err := i.books.FindByISBN(isbn)
		if err != nil {
			return nil, err
		}
		if book != nil {
			return book, nil
		}

		if book := i.resolveExternal(ctx, rec, isbn); book != nil {
			return book, nil
		}
	}

	book, err := i.books.Create(books.CreateFields{
		Title:  rec.Title,
		Author: rec.Author,
		ISBN:   isbn,
	})
	if err != nil {
		return nil, err
	}

	if i.enricher != nil && isbn != "" {
		if err := i.enricher.EnqueueEnrichment(book.ID); err != nil {
			log.Printf("Failed to queue enrichment for book %d: %v", book.ID, err)
		}
	}

	return book, nil
}

// resolveExternal tries the metadata service and creates a book from the
// result. Every failure here (lookup or creation) downgrades to nil so the
// caller falls back to minimal creation.
func (i *Importer) resolveExternal(ctx context.Context, rec goodreads.Record, isbn string) *entities.Book {
	md, err := i.metadata.FetchByISBN(ctx, isbn)
	if err != nil {
		log.Printf("Metadata lookup failed for ISBN %s: %v", isbn, err)
		return nil
	}
	if md == nil {
		return nil
	}

	fields := books.CreateFields{
		Title:         md.Title,
		Author:        md.Author,
		ISBN:          md.ISBN,
		Description:   md.Description,
		CoverURL:      md.CoverURL,
		PageCount:     md.PageCount,
		PublishedDate: md.PublishedDate,
		Genres:        md.Genres,
		OpenLibraryID: md.OpenLibraryID,
	}
	// Prefer external data but fall back to the CSV when it is incomplete.
	if fields.Title == "" {
		fields.Title = rec.Title
	}
	if fields.Author == "" {
		fields.Author = rec.Author
	}
	if fields.ISBN == "" {
		fields.ISBN = isbn
	}

	book, err := i.books.Create(fields)
	if err != nil {
		log.Printf("Failed to create book from metadata for ISBN %s: %v", isbn, err)
		return nil
	}
	return book
}

// write applies the record's shelf, rating and progress to the resolved
// book, best-effort. Sub-step failures are logged, reported in the outcome,
// and never fail the record.
func (i *Importer) write(userID uint, rec goodreads.Record, book *entities.Book) WriteOutcome {
	var out WriteOutcome

	if rec.Shelf != entities.ShelfKindNone {
		shelf, err := i.shelves.FindDefault(userID, rec.Shelf)
		switch {
		case err != nil:
			log.Printf("Shelf lookup failed for %q: %v", rec.Shelf, err)
		case shelf == nil:
			log.Printf("User %d has no %q shelf, skipping assignment", userID, rec.Shelf)
		default:
			if err := i.shelves.Assign(shelf.ID, book.ID, userID); err != nil {
				log.Printf("Shelf assignment failed for book %d: %v", book.ID, err)
			} else {
				out.ShelfAssigned = true
			}
		}
	}

	if rec.Rating >= 1 && rec.Rating <= 5 {
		if err := i.reviews.UpsertRating(userID, book.ID, rec.Rating); err != nil {
			log.Printf("Rating upsert failed for book %d: %v", book.ID, err)
		} else {
			out.ReviewSaved = true
		}
	}

	if rec.DateRead != nil && rec.Shelf == entities.ShelfKindRead {
		if err := i.progress.SetFinished(userID, book.ID, *rec.DateRead, book.PageCount); err != nil {
			log.Printf("Progress upsert failed for book %d: %v", book.ID, err)
		} else {
			out.ProgressSaved = true
		}
	}

	return out
}
