// Package shelves provides database operations for shelf management.
//
// This package implements the importers.ShelfStore interface used by the
// Goodreads import pipeline.
package shelves

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// ErrShelfNotFound is returned when a shelf does not exist or does not
// belong to the requesting user.
var ErrShelfNotFound = errors.New("shelf not found")

// ErrDefaultShelf is returned on attempts to delete a default shelf.
var ErrDefaultShelf = errors.New("cannot delete default shelves")

// Repository handles all shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SeedDefaults creates the three default shelves for a user. Already-present
// shelves are left alone, so the call is safe to repeat.
func (r *Repository) SeedDefaults(userID uint) error {
	for _, kind := range entities.DefaultShelfKinds {
		var existing entities.Shelf
		err := r.db.Where("user_id = ? AND kind = ?", userID, kind).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			shelf := entities.Shelf{
				UserID:    userID,
				Name:      kind.DisplayName(),
				Kind:      kind,
				IsDefault: true,
			}
			if err := r.db.Create(&shelf).Error; err != nil {
				return fmt.Errorf("failed to create default shelf %q: %w", kind, err)
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// FindDefault returns the user's default shelf of the given kind, or nil when
// the user has no such shelf.
func (r *Repository) FindDefault(userID uint, kind entities.ShelfKind) (*entities.Shelf, error) {
	if kind == entities.ShelfKindNone {
		return nil, nil
	}
	var shelf entities.Shelf
	err := r.db.Where("user_id = ? AND kind = ? AND is_default = ?", userID, kind, true).First(&shelf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// ListForUser returns all shelves of a user with their books, default
// shelves first.
func (r *Repository) ListForUser(userID uint) ([]entities.Shelf, error) {
	var shelves []entities.Shelf
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at DESC")
		}).
		Preload("Items.Book").
		Where("user_id = ?", userID).
		Order("is_default DESC, name ASC").
		Find(&shelves).Error
	return shelves, err
}

// GetByID retrieves a shelf with its books.
func (r *Repository) GetByID(shelfID uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at DESC")
		}).
		Preload("Items.Book").
		First(&shelf, shelfID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShelfNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// Create adds a custom (non-default) shelf for a user.
func (r *Repository) Create(userID uint, name string) (*entities.Shelf, error) {
	shelf := &entities.Shelf{
		UserID: userID,
		Name:   name,
	}
	if err := r.db.Create(shelf).Error; err != nil {
		return nil, err
	}
	return shelf, nil
}

// Delete removes a user's custom shelf. Default shelves cannot be deleted.
func (r *Repository) Delete(shelfID, userID uint) error {
	shelf, err := r.ownedShelf(shelfID, userID)
	if err != nil {
		return err
	}
	if shelf.IsDefault {
		return ErrDefaultShelf
	}
	if err := r.db.Where("shelf_id = ?", shelfID).Delete(&entities.ShelfBook{}).Error; err != nil {
		return err
	}
	return r.db.Delete(shelf).Error
}

// Assign puts a book on a shelf. Adding a book already on the shelf is a
// no-op. When the target is a default shelf the book is first removed from
// the user's other default shelves, keeping read/reading/want-to-read
// mutually exclusive.
func (r *Repository) Assign(shelfID, bookID, userID uint) error {
	shelf, err := r.ownedShelf(shelfID, userID)
	if err != nil {
		return err
	}

	if shelf.IsDefault {
		var defaultIDs []uint
		if err := r.db.Model(&entities.Shelf{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Pluck("id", &defaultIDs).Error; err != nil {
			return err
		}
		if err := r.db.
			Where("book_id = ? AND shelf_id IN ? AND shelf_id <> ?", bookID, defaultIDs, shelfID).
			Delete(&entities.ShelfBook{}).Error; err != nil {
			return err
		}
	}

	var existing entities.ShelfBook
	err = r.db.Where("shelf_id = ? AND book_id = ?", shelfID, bookID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.Create(&entities.ShelfBook{ShelfID: shelfID, BookID: bookID}).Error
}

// Remove takes a book off a shelf.
func (r *Repository) Remove(shelfID, bookID, userID uint) error {
	if _, err := r.ownedShelf(shelfID, userID); err != nil {
		return err
	}
	return r.db.Where("shelf_id = ? AND book_id = ?", shelfID, bookID).Delete(&entities.ShelfBook{}).Error
}

// RecentDefaultShelfAdds lists recent additions to the default shelves of
// the given users, newest first. Used by the activity feed.
func (r *Repository) RecentDefaultShelfAdds(userIDs []uint, limit int) ([]entities.ShelfBook, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var items []entities.ShelfBook
	err := r.db.
		Preload("Book").
		Preload("Shelf").
		Joins("JOIN shelves ON shelves.id = shelf_books.shelf_id").
		Where("shelves.user_id IN ? AND shelves.is_default = ?", userIDs, true).
		Order("shelf_books.added_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *Repository) ownedShelf(shelfID, userID uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.First(&shelf, shelfID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShelfNotFound
	}
	if err != nil {
		return nil, err
	}
	if shelf.UserID != userID {
		return nil, ErrShelfNotFound
	}
	return &shelf, nil
}
