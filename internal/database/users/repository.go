// Package users provides database operations for accounts and follows.
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// Repository handles all user and follow database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. Email uniqueness is enforced by the schema.
func (r *Repository) Create(name, email, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given email, or nil when none exists.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates a user's display name, bio and avatar.
func (r *Repository) UpdateProfile(userID uint, name, bio, avatarURL string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"name":       name,
		"bio":        bio,
		"avatar_url": avatarURL,
	}).Error
}

// Follow makes follower follow followee. Following twice is a no-op.
func (r *Repository) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	var followee entities.User
	if err := r.db.First(&followee, followeeID).Error; err != nil {
		return fmt.Errorf("followee not found: %w", err)
	}

	var existing entities.Follow
	err := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&entities.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

// Unfollow removes a follow relationship.
func (r *Repository) Unfollow(followerID, followeeID uint) error {
	return r.db.
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&entities.Follow{}).Error
}

// IsFollowing reports whether follower follows followee.
func (r *Repository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Followers returns the users following userID, newest follow first.
func (r *Repository) Followers(userID uint) ([]entities.User, error) {
	var followers []entities.User
	err := r.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&followers).Error
	return followers, err
}

// Following returns the users userID follows, newest follow first.
func (r *Repository) Following(userID uint) ([]entities.User, error) {
	var following []entities.User
	err := r.db.
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&following).Error
	return following, err
}

// FollowingIDs returns the IDs of the users userID follows.
func (r *Repository) FollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// ProfileCounts returns follower, following and review counts for a profile
// page.
func (r *Repository) ProfileCounts(userID uint) (followers, following, reviews int64, err error) {
	if err = r.db.Model(&entities.Follow{}).Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return
	}
	if err = r.db.Model(&entities.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return
	}
	err = r.db.Model(&entities.Review{}).Where("user_id = ?", userID).Count(&reviews).Error
	return
}
