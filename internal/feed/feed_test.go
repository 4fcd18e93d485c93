package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/bookshelf/internal/entities"
)

type stubStores struct {
	following []entities.User
	adds      []entities.ShelfBook
	reviews   []entities.Review
	progress  []entities.ReadingProgress
}

func (s *stubStores) Following(userID uint) ([]entities.User, error) { return s.following, nil }
func (s *stubStores) RecentDefaultShelfAdds(userIDs []uint, limit int) ([]entities.ShelfBook, error) {
	return s.adds, nil
}
func (s *stubStores) ListForUsers(userIDs []uint, limit int) ([]entities.Review, error) {
	return s.reviews, nil
}
func (s *stubStores) RecentForUsers(userIDs []uint, limit int) ([]entities.ReadingProgress, error) {
	return s.progress, nil
}

func at(hour int) time.Time {
	return time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC)
}

func TestBuildFeed(t *testing.T) {
	hobbit := entities.Book{ID: 1, Title: "The Hobbit"}
	dune := entities.Book{ID: 2, Title: "Dune"}

	t.Run("No follows means an empty feed", func(t *testing.T) {
		svc := NewService(&stubStores{}, &stubStores{}, &stubStores{}, &stubStores{})

		events, err := svc.Build(1, 10)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Events merge newest first across sources", func(t *testing.T) {
		finished := at(12)
		stores := &stubStores{
			following: []entities.User{{ID: 2, Name: "Ana"}, {ID: 3, Name: "Boris"}},
			adds: []entities.ShelfBook{{
				Shelf:   entities.Shelf{UserID: 2, Name: "Want to Read"},
				Book:    hobbit,
				AddedAt: at(10),
			}},
			reviews: []entities.Review{{
				UserID: 3, Book: dune, Rating: 4, Content: "Great",
				UpdatedAt: at(11),
			}},
			progress: []entities.ReadingProgress{{
				UserID: 2, Book: dune, CurrentPage: 412, FinishedAt: &finished,
			}},
		}
		svc := NewService(stores, stores, stores, stores)

		events, err := svc.Build(1, 10)

		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, EventFinished, events[0].Type)
		assert.Equal(t, "Ana", events[0].UserName)
		assert.Equal(t, "Dune", events[0].Book.Title)

		assert.Equal(t, EventReviewed, events[1].Type)
		assert.Equal(t, "Boris", events[1].UserName)
		assert.Equal(t, 4, events[1].Rating)

		assert.Equal(t, EventShelved, events[2].Type)
		assert.Equal(t, "Want to Read", events[2].ShelfName)
	})

	t.Run("Limit truncates the merged feed", func(t *testing.T) {
		stores := &stubStores{
			following: []entities.User{{ID: 2, Name: "Ana"}},
		}
		for h := 1; h <= 5; h++ {
			stores.reviews = append(stores.reviews, entities.Review{
				UserID: 2, Book: hobbit, Rating: 3, UpdatedAt: at(h),
			})
		}
		svc := NewService(stores, stores, stores, stores)

		events, err := svc.Build(1, 2)

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, at(5), events[0].OccurredAt)
		assert.Equal(t, at(4), events[1].OccurredAt)
	})

	t.Run("In-progress update keeps the page number", func(t *testing.T) {
		stores := &stubStores{
			following: []entities.User{{ID: 2, Name: "Ana"}},
			progress: []entities.ReadingProgress{{
				UserID: 2, Book: dune, CurrentPage: 120, UpdatedAt: at(9),
			}},
		}
		svc := NewService(stores, stores, stores, stores)

		events, err := svc.Build(1, 10)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, EventProgress, events[0].Type)
		assert.Equal(t, 120, events[0].Page)
	})
}
