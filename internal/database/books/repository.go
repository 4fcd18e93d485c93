// Package books provides database operations for the book catalog.
//
// This package implements the importers.BookStore interface used by the
// Goodreads import pipeline.
package books

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateFields carries everything needed to create a catalog entry.
// Title and Author are required; the rest is optional.
type CreateFields struct {
	Title         string
	Author        string
	ISBN          string
	Description   string
	CoverURL      string
	PageCount     int
	PublishedDate string
	Genres        []string
	OpenLibraryID string
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByISBN returns the book with the given ISBN, or nil when no such book
// exists. Only storage failures surface as errors.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	if isbn == "" {
		return nil, nil
	}
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByOpenLibraryID returns the book with the given OpenLibrary id, or nil.
func (r *Repository) FindByOpenLibraryID(olid string) (*entities.Book, error) {
	if olid == "" {
		return nil, nil
	}
	var book entities.Book
	err := r.db.Where("open_library_id = ?", olid).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book, deduplicating by ISBN and then OpenLibrary id:
// when a matching book already exists it is returned instead. The partial
// unique indexes on those columns back this up under concurrent imports.
func (r *Repository) Create(fields CreateFields) (*entities.Book, error) {
	if fields.Title == "" || fields.Author == "" {
		return nil, fmt.Errorf("title and author are required")
	}

	if existing, err := r.FindByISBN(fields.ISBN); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if existing, err := r.FindByOpenLibraryID(fields.OpenLibraryID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	book := &entities.Book{
		Title:         fields.Title,
		Author:        fields.Author,
		ISBN:          fields.ISBN,
		Description:   fields.Description,
		CoverURL:      fields.CoverURL,
		PageCount:     fields.PageCount,
		PublishedDate: fields.PublishedDate,
		Genres:        strings.Join(fields.Genres, ","),
		OpenLibraryID: fields.OpenLibraryID,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// Search finds books by title, author or ISBN (case-insensitive partial match).
func (r *Repository) Search(query string, limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = 20
	}
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR isbn LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&books).Error
	return books, err
}

// Popular returns the books most often shelved during the past week.
func (r *Repository) Popular(limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = 10
	}
	weekAgo := time.Now().AddDate(0, 0, -7)

	var books []entities.Book
	err := r.db.
		Joins("JOIN shelf_books ON shelf_books.book_id = books.id").
		Where("shelf_books.added_at >= ?", weekAgo).
		Group("books.id").
		Order("COUNT(shelf_books.id) DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// MissingMetadata lists books with an ISBN that were created without
// OpenLibrary data, for the enrichment sweep.
func (r *Repository) MissingMetadata(limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = 25
	}
	var books []entities.Book
	err := r.db.
		Where("isbn <> '' AND open_library_id = ''").
		Order("created_at ASC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// ApplyMetadata fills empty catalog fields from fetched metadata. Existing
// values are kept; only blanks are written.
func (r *Repository) ApplyMetadata(bookID uint, md *metadata.BookMetadata) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return err
	}

	updates := map[string]any{}
	if book.Description == "" && md.Description != "" {
		updates["description"] = md.Description
	}
	if book.CoverURL == "" && md.CoverURL != "" {
		updates["cover_url"] = md.CoverURL
	}
	if book.PageCount == 0 && md.PageCount > 0 {
		updates["page_count"] = md.PageCount
	}
	if book.PublishedDate == "" && md.PublishedDate != "" {
		updates["published_date"] = md.PublishedDate
	}
	if book.Genres == "" && len(md.Genres) > 0 {
		updates["genres"] = strings.Join(md.Genres, ",")
	}
	if book.OpenLibraryID == "" && md.OpenLibraryID != "" {
		updates["open_library_id"] = md.OpenLibraryID
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.Model(&book).Updates(updates).Error
}
