package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/metadata"
)

type stubCatalog struct {
	book    *entities.Book
	applied map[uint]*metadata.BookMetadata
}

func (s *stubCatalog) GetByID(id uint) (*entities.Book, error) {
	if s.book == nil || s.book.ID != id {
		return nil, fmt.Errorf("book %d not found", id)
	}
	return s.book, nil
}

func (s *stubCatalog) ApplyMetadata(bookID uint, md *metadata.BookMetadata) error {
	if s.applied == nil {
		s.applied = map[uint]*metadata.BookMetadata{}
	}
	s.applied[bookID] = md
	return nil
}

type stubFetcher struct {
	result *metadata.BookMetadata
	err    error
	calls  int
}

func (s *stubFetcher) FetchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error) {
	s.calls++
	return s.result, s.err
}

func TestEnrichBookProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("Fills metadata for a bare book", func(t *testing.T) {
		catalog := &stubCatalog{book: &entities.Book{ID: 5, Title: "Dune", ISBN: "9780441013593"}}
		fetcher := &stubFetcher{result: &metadata.BookMetadata{
			OpenLibraryID: "/books/OL1M", PageCount: 412,
		}}

		err := EnrichBookProcessor(catalog, fetcher)(ctx, EnrichBookTask{BookID: 5})

		require.NoError(t, err)
		require.Contains(t, catalog.applied, uint(5))
		assert.Equal(t, "/books/OL1M", catalog.applied[5].OpenLibraryID)
	})

	t.Run("Skips books without an ISBN", func(t *testing.T) {
		catalog := &stubCatalog{book: &entities.Book{ID: 5, Title: "Dune"}}
		fetcher := &stubFetcher{}

		err := EnrichBookProcessor(catalog, fetcher)(ctx, EnrichBookTask{BookID: 5})

		require.NoError(t, err)
		assert.Zero(t, fetcher.calls)
		assert.Empty(t, catalog.applied)
	})

	t.Run("Skips already enriched books", func(t *testing.T) {
		catalog := &stubCatalog{book: &entities.Book{
			ID: 5, ISBN: "9780441013593", OpenLibraryID: "/books/OL1M",
		}}
		fetcher := &stubFetcher{}

		err := EnrichBookProcessor(catalog, fetcher)(ctx, EnrichBookTask{BookID: 5})

		require.NoError(t, err)
		assert.Zero(t, fetcher.calls)
	})

	t.Run("Fetch failure surfaces for retry", func(t *testing.T) {
		catalog := &stubCatalog{book: &entities.Book{ID: 5, ISBN: "9780441013593"}}
		fetcher := &stubFetcher{err: fmt.Errorf("timeout")}

		err := EnrichBookProcessor(catalog, fetcher)(ctx, EnrichBookTask{BookID: 5})

		assert.Error(t, err)
	})

	t.Run("Not found is terminal, not retried", func(t *testing.T) {
		catalog := &stubCatalog{book: &entities.Book{ID: 5, ISBN: "9780441013593"}}
		fetcher := &stubFetcher{}

		err := EnrichBookProcessor(catalog, fetcher)(ctx, EnrichBookTask{BookID: 5})

		require.NoError(t, err)
		assert.Empty(t, catalog.applied)
	})
}
