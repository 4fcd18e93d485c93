// Package progress provides database operations for reading progress.
//
// This package implements the importers.ProgressStore interface used by the
// Goodreads import pipeline.
package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// Repository handles all reading-progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the progress entry for (user, book), or nil when none exists.
func (r *Repository) Get(userID, bookID uint) (*entities.ReadingProgress, error) {
	var p entities.ReadingProgress
	err := r.db.Preload("Book").Where("user_id = ? AND book_id = ?", userID, bookID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// upsert writes the given fields into the (user, book) progress row,
// creating it if needed. The composite unique index prevents duplicates.
func (r *Repository) upsert(userID, bookID uint, apply func(*entities.ReadingProgress)) (*entities.ReadingProgress, error) {
	var p entities.ReadingProgress
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = entities.ReadingProgress{UserID: userID, BookID: bookID}
		apply(&p)
		if err := r.db.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	apply(&p)
	if err := r.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePage sets the current page; reaching the book's page count marks the
// book finished.
func (r *Repository) UpdatePage(userID, bookID uint, currentPage int) (*entities.ReadingProgress, error) {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return nil, err
	}

	return r.upsert(userID, bookID, func(p *entities.ReadingProgress) {
		p.CurrentPage = currentPage
		if book.PageCount > 0 && currentPage >= book.PageCount {
			now := time.Now()
			p.FinishedAt = &now
		} else {
			p.FinishedAt = nil
		}
	})
}

// Start begins tracking a book from page zero.
func (r *Repository) Start(userID, bookID uint) (*entities.ReadingProgress, error) {
	return r.upsert(userID, bookID, func(p *entities.ReadingProgress) {
		p.CurrentPage = 0
		p.StartedAt = time.Now()
		p.FinishedAt = nil
	})
}

// Finish marks a book finished now, setting the page to the book's count.
func (r *Repository) Finish(userID, bookID uint) (*entities.ReadingProgress, error) {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	return r.upsert(userID, bookID, func(p *entities.ReadingProgress) {
		p.CurrentPage = book.PageCount
		p.FinishedAt = &now
	})
}

// SetFinished records a historical finish date and page for (user, book).
// Used by the import pipeline for rows carrying a Date Read.
func (r *Repository) SetFinished(userID, bookID uint, finishedAt time.Time, currentPage int) error {
	_, err := r.upsert(userID, bookID, func(p *entities.ReadingProgress) {
		p.CurrentPage = currentPage
		p.FinishedAt = &finishedAt
	})
	return err
}

// CurrentlyReading lists a user's unfinished books, most recently updated
// first.
func (r *Repository) CurrentlyReading(userID uint) ([]entities.ReadingProgress, error) {
	var items []entities.ReadingProgress
	err := r.db.
		Preload("Book").
		Where("user_id = ? AND finished_at IS NULL", userID).
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

// RecentForUsers lists recent progress updates for any of the given users.
// Used by the activity feed.
func (r *Repository) RecentForUsers(userIDs []uint, limit int) ([]entities.ReadingProgress, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var items []entities.ReadingProgress
	err := r.db.
		Preload("Book").
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Stats summarizes a user's reading: finished books, in-progress books, and
// total pages across finished books.
func (r *Repository) Stats(userID uint) (finished int64, reading int64, pagesRead int, err error) {
	if err = r.db.Model(&entities.ReadingProgress{}).
		Where("user_id = ? AND finished_at IS NOT NULL", userID).
		Count(&finished).Error; err != nil {
		return
	}
	if err = r.db.Model(&entities.ReadingProgress{}).
		Where("user_id = ? AND finished_at IS NULL", userID).
		Count(&reading).Error; err != nil {
		return
	}

	var finishedItems []entities.ReadingProgress
	if err = r.db.Preload("Book").
		Where("user_id = ? AND finished_at IS NOT NULL", userID).
		Find(&finishedItems).Error; err != nil {
		return
	}
	for _, p := range finishedItems {
		pagesRead += p.Book.PageCount
	}
	return
}
