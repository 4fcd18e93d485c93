// Package reviews provides database operations for book ratings and reviews.
//
// This package implements the importers.ReviewStore interface used by the
// Goodreads import pipeline.
package reviews

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// ErrReviewNotFound is returned when a review does not exist or does not
// belong to the requesting user.
var ErrReviewNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates or overwrites the review for (user, book). Ratings outside
// 1-5 are rejected. A review is never duplicated for the same pair.
func (r *Repository) Upsert(userID, bookID uint, rating int, content string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	var review entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&review).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = entities.Review{
			UserID:  userID,
			BookID:  bookID,
			Rating:  rating,
			Content: content,
		}
		if err := r.db.Create(&review).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		review.Rating = rating
		review.Content = content
		if err := r.db.Save(&review).Error; err != nil {
			return nil, err
		}
	}
	return &review, nil
}

// UpsertRating creates or overwrites a bare rating, keeping any existing
// review text. Used by the import pipeline.
func (r *Repository) UpsertRating(userID, bookID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	var review entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&entities.Review{UserID: userID, BookID: bookID, Rating: rating}).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&review).Update("rating", rating).Error
}

// ListForBook returns all reviews of a book, newest first.
func (r *Repository) ListForBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.
		Preload("Book").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListForUsers returns recent reviews by any of the given users, newest
// first. Used by the activity feed.
func (r *Repository) ListForUsers(userIDs []uint, limit int) ([]entities.Review, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var reviews []entities.Review
	err := r.db.
		Preload("Book").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// Delete removes a user's review.
func (r *Repository) Delete(reviewID, userID uint) error {
	var review entities.Review
	err := r.db.First(&review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrReviewNotFound
	}
	return r.db.Delete(&review).Error
}

// AverageRating returns the mean rating of a book and the rating count.
func (r *Repository) AverageRating(bookID uint) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&entities.Review{}).Where("book_id = ?", bookID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	err := r.db.Model(&entities.Review{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").
		Scan(&avg).Error
	return avg, count, err
}
