package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// BookCatalog is the catalog surface the books endpoints need.
type BookCatalog interface {
	GetByID(id uint) (*entities.Book, error)
	Search(query string, limit int) ([]entities.Book, error)
	Popular(limit int) ([]entities.Book, error)
}

// ReviewReader supplies review data for the book detail view.
type ReviewReader interface {
	ListForBook(bookID uint) ([]entities.Review, error)
	AverageRating(bookID uint) (float64, int64, error)
}

// MetadataSearcher queries the external catalog by free-text.
type MetadataSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]metadata.BookMetadata, error)
}

// CoverCache resolves a book's cover URL to a locally cached image file.
type CoverCache interface {
	Get(ctx context.Context, bookID uint, coverURL string) (string, error)
}

// BooksController serves the book catalog endpoints.
type BooksController struct {
	catalog  BookCatalog
	reviews  ReviewReader
	external MetadataSearcher
	covers   CoverCache // nil disables the cover endpoint
}

func NewBooksController(catalog BookCatalog, reviews ReviewReader, external MetadataSearcher, covers CoverCache) *BooksController {
	return &BooksController{
		catalog:  catalog,
		reviews:  reviews,
		external: external,
		covers:   covers,
	}
}

// BookDetail is the book detail payload with aggregate review data.
type BookDetail struct {
	entities.Book
	Genres        []string `json:"genres,omitempty"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

// Get handles GET /api/books/:id.
func (ctrl *BooksController) Get(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.catalog.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}

	avg, count, err := ctrl.reviews.AverageRating(bookID)
	if err != nil {
		respondInternalError(c, err, "load book rating")
		return
	}

	c.JSON(http.StatusOK, BookDetail{
		Book:          *book,
		Genres:        book.GenreList(),
		AverageRating: avg,
		ReviewCount:   count,
	})
}

// Search handles GET /api/books/search?q=...
func (ctrl *BooksController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	books, err := ctrl.catalog.Search(query, parseLimitQuery(c, 20))
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Popular handles GET /api/books/popular.
func (ctrl *BooksController) Popular(c *gin.Context) {
	books, err := ctrl.catalog.Popular(parseLimitQuery(c, 10))
	if err != nil {
		respondInternalError(c, err, "load popular books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Reviews handles GET /api/books/:id/reviews.
func (ctrl *BooksController) Reviews(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviews.ListForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list book reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Lookup handles GET /api/books/lookup?q=..., searching OpenLibrary for
// books not yet in the local catalog.
func (ctrl *BooksController) Lookup(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	results, err := ctrl.external.Search(c.Request.Context(), query, parseLimitQuery(c, 10))
	if err != nil {
		respondError(c, http.StatusBadGateway, "book lookup is temporarily unavailable")
		return
	}
	c.JSON(http.StatusOK, results)
}

// Cover handles GET /api/books/:id/cover, serving the cached cover image.
func (ctrl *BooksController) Cover(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.catalog.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}
	if ctrl.covers == nil || book.CoverURL == "" {
		respondNotFound(c, "cover")
		return
	}

	path, err := ctrl.covers.Get(c.Request.Context(), book.ID, book.CoverURL)
	if err != nil {
		respondError(c, http.StatusBadGateway, "cover is temporarily unavailable")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
