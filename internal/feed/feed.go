// Package feed aggregates recent activity from followed users into a single
// reverse-chronological timeline.
package feed

import (
	"sort"
	"time"

	"github.com/avelichka/bookshelf/internal/entities"
)

// EventType categorizes a feed entry.
type EventType string

const (
	EventShelved  EventType = "shelved"
	EventReviewed EventType = "reviewed"
	EventProgress EventType = "progress"
	EventFinished EventType = "finished"
)

// Event is one entry in a user's activity feed.
type Event struct {
	Type       EventType     `json:"type"`
	UserID     uint          `json:"user_id"`
	UserName   string        `json:"user_name"`
	Book       entities.Book `json:"book"`
	ShelfName  string        `json:"shelf_name,omitempty"`
	Rating     int           `json:"rating,omitempty"`
	Content    string        `json:"content,omitempty"`
	Page       int           `json:"page,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// UserStore supplies the followed users whose activity makes up the feed.
type UserStore interface {
	Following(userID uint) ([]entities.User, error)
}

// ShelfStore supplies recent default-shelf additions.
type ShelfStore interface {
	RecentDefaultShelfAdds(userIDs []uint, limit int) ([]entities.ShelfBook, error)
}

// ReviewStore supplies recent reviews.
type ReviewStore interface {
	ListForUsers(userIDs []uint, limit int) ([]entities.Review, error)
}

// ProgressStore supplies recent reading-progress updates.
type ProgressStore interface {
	RecentForUsers(userIDs []uint, limit int) ([]entities.ReadingProgress, error)
}

const defaultLimit = 50

// Service builds activity feeds.
type Service struct {
	users    UserStore
	shelves  ShelfStore
	reviews  ReviewStore
	progress ProgressStore
}

func NewService(users UserStore, shelves ShelfStore, reviews ReviewStore, progress ProgressStore) *Service {
	return &Service{
		users:    users,
		shelves:  shelves,
		reviews:  reviews,
		progress: progress,
	}
}

// Build assembles the feed for a user: shelf additions, reviews and progress
// updates from everyone they follow, merged newest first. A user following
// nobody gets an empty feed.
func (s *Service) Build(userID uint, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	following, err := s.users.Following(userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []Event{}, nil
	}

	ids := make([]uint, 0, len(following))
	names := make(map[uint]string, len(following))
	for _, u := range following {
		ids = append(ids, u.ID)
		names[u.ID] = u.Name
	}

	events := make([]Event, 0, limit*3)

	adds, err := s.shelves.RecentDefaultShelfAdds(ids, limit)
	if err != nil {
		return nil, err
	}
	for _, add := range adds {
		events = append(events, Event{
			Type:       EventShelved,
			UserID:     add.Shelf.UserID,
			UserName:   names[add.Shelf.UserID],
			Book:       add.Book,
			ShelfName:  add.Shelf.Name,
			OccurredAt: add.AddedAt,
		})
	}

	reviews, err := s.reviews.ListForUsers(ids, limit)
	if err != nil {
		return nil, err
	}
	for _, review := range reviews {
		events = append(events, Event{
			Type:       EventReviewed,
			UserID:     review.UserID,
			UserName:   names[review.UserID],
			Book:       review.Book,
			Rating:     review.Rating,
			Content:    review.Content,
			OccurredAt: review.UpdatedAt,
		})
	}

	updates, err := s.progress.RecentForUsers(ids, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range updates {
		event := Event{
			Type:       EventProgress,
			UserID:     p.UserID,
			UserName:   names[p.UserID],
			Book:       p.Book,
			Page:       p.CurrentPage,
			OccurredAt: p.UpdatedAt,
		}
		if p.FinishedAt != nil {
			event.Type = EventFinished
			event.OccurredAt = *p.FinishedAt
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
