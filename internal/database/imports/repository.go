// Package imports persists the outcome of Goodreads import runs.
package imports

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// Repository handles import-session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import-sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Begin records the start of an import run and returns the session.
func (r *Repository) Begin(userID uint) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		Token:     uuid.NewString(),
		UserID:    userID,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Complete records the final counts and errors of a finished run.
func (r *Repository) Complete(sessionID uint, imported, skipped int, errs []string) error {
	errorsJSON, err := json.Marshal(errs)
	if err != nil {
		return err
	}
	now := time.Now()
	return r.db.Model(&entities.ImportSession{}).Where("id = ?", sessionID).Updates(map[string]any{
		"status":       entities.ImportStatusCompleted,
		"imported":     imported,
		"skipped":      skipped,
		"errors":       string(errorsJSON),
		"completed_at": &now,
	}).Error
}

// Fail marks a run as failed with the fatal error message.
func (r *Repository) Fail(sessionID uint, reason string) error {
	errorsJSON, _ := json.Marshal([]string{reason})
	now := time.Now()
	return r.db.Model(&entities.ImportSession{}).Where("id = ?", sessionID).Updates(map[string]any{
		"status":       entities.ImportStatusFailed,
		"errors":       string(errorsJSON),
		"completed_at": &now,
	}).Error
}

// ListForUser returns a user's import history, newest first.
func (r *Repository) ListForUser(userID uint) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := r.db.
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}
