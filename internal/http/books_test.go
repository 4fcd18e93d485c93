package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/metadata"
)

type stubCatalog struct {
	books map[uint]*entities.Book
}

func (s *stubCatalog) GetByID(id uint) (*entities.Book, error) {
	book, ok := s.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return book, nil
}

func (s *stubCatalog) Search(query string, limit int) ([]entities.Book, error) {
	var out []entities.Book
	for _, b := range s.books {
		out = append(out, *b)
	}
	return out, nil
}

func (s *stubCatalog) Popular(limit int) ([]entities.Book, error) {
	return nil, nil
}

type stubReviewReader struct {
	avg   float64
	count int64
}

func (s *stubReviewReader) ListForBook(bookID uint) ([]entities.Review, error) {
	return nil, nil
}

func (s *stubReviewReader) AverageRating(bookID uint) (float64, int64, error) {
	return s.avg, s.count, nil
}

type stubSearcher struct {
	results []metadata.BookMetadata
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]metadata.BookMetadata, error) {
	return s.results, s.err
}

type stubCoverCache struct {
	path string
	err  error
}

func (s *stubCoverCache) Get(ctx context.Context, bookID uint, coverURL string) (string, error) {
	return s.path, s.err
}

func newBooksRouter(catalog BookCatalog, reviews ReviewReader, searcher MetadataSearcher, covers CoverCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewBooksController(catalog, reviews, searcher, covers)
	router.GET("/api/books/search", ctrl.Search)
	router.GET("/api/books/lookup", ctrl.Lookup)
	router.GET("/api/books/:id", ctrl.Get)
	router.GET("/api/books/:id/cover", ctrl.Cover)
	return router
}

func TestBooksEndpoints(t *testing.T) {
	hobbit := &entities.Book{ID: 1, Title: "The Hobbit", Genres: "fantasy,adventure"}

	t.Run("Detail includes genres and review aggregates", func(t *testing.T) {
		router := newBooksRouter(
			&stubCatalog{books: map[uint]*entities.Book{1: hobbit}},
			&stubReviewReader{avg: 4.5, count: 2},
			&stubSearcher{},
			&stubCoverCache{},
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var detail BookDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, "The Hobbit", detail.Title)
		assert.Equal(t, []string{"fantasy", "adventure"}, detail.Genres)
		assert.Equal(t, 4.5, detail.AverageRating)
		assert.Equal(t, int64(2), detail.ReviewCount)
	})

	t.Run("Unknown book is a 404", func(t *testing.T) {
		router := newBooksRouter(&stubCatalog{}, &stubReviewReader{}, &stubSearcher{}, &stubCoverCache{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Search requires a query", func(t *testing.T) {
		router := newBooksRouter(&stubCatalog{}, &stubReviewReader{}, &stubSearcher{}, &stubCoverCache{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/search", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Lookup failure maps to 502", func(t *testing.T) {
		router := newBooksRouter(&stubCatalog{}, &stubReviewReader{},
			&stubSearcher{err: fmt.Errorf("connection refused")}, &stubCoverCache{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/lookup?q=dune", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("Cover serves the cached file", func(t *testing.T) {
		coverFile := filepath.Join(t.TempDir(), "cover.jpg")
		require.NoError(t, os.WriteFile(coverFile, []byte("jpeg bytes"), 0o644))

		withCover := &entities.Book{ID: 2, Title: "The Hobbit", CoverURL: "https://covers.openlibrary.org/b/id/1-L.jpg"}
		router := newBooksRouter(
			&stubCatalog{books: map[uint]*entities.Book{2: withCover}},
			&stubReviewReader{}, &stubSearcher{},
			&stubCoverCache{path: coverFile},
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/2/cover", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jpeg bytes", w.Body.String())
	})

	t.Run("Cover for a book without one is a 404", func(t *testing.T) {
		router := newBooksRouter(
			&stubCatalog{books: map[uint]*entities.Book{1: hobbit}},
			&stubReviewReader{}, &stubSearcher{}, &stubCoverCache{},
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/1/cover", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Cover fetch failure maps to 502", func(t *testing.T) {
		withCover := &entities.Book{ID: 2, CoverURL: "https://covers.openlibrary.org/b/id/1-L.jpg"}
		router := newBooksRouter(
			&stubCatalog{books: map[uint]*entities.Book{2: withCover}},
			&stubReviewReader{}, &stubSearcher{},
			&stubCoverCache{err: fmt.Errorf("status 500")},
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/2/cover", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
