package reviews

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avelichka/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_reviews_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Review{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_Upsert(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	review, err := repo.Upsert(1, 1, 4, "Loved the worldbuilding")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, 4, review.Rating)

	// Same pair overwrites instead of duplicating
	updated, err := repo.Upsert(1, 1, 5, "Even better on a reread")
	require.NoError(t, err)
	assert.Equal(t, review.ID, updated.ID)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Even better on a reread", updated.Content)

	all, err := repo.ListForBook(1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_Upsert_RatingBounds(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Upsert(1, 1, 0, "")
	assert.Error(t, err)

	_, err = repo.Upsert(1, 1, 6, "")
	assert.Error(t, err)
}

func TestRepository_UpsertRating_KeepsContent(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Upsert(1, 1, 3, "Initial impressions")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertRating(1, 1, 5))

	reviews, err := repo.ListForBook(1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Initial impressions", reviews[0].Content)
}

func TestRepository_UpsertRating_CreatesWhenMissing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.UpsertRating(1, 1, 4))

	reviews, err := repo.ListForBook(1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Empty(t, reviews[0].Content)
}

func TestRepository_ListForUsers(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Upsert(1, 1, 4, "")
	require.NoError(t, err)
	_, err = repo.Upsert(2, 1, 2, "")
	require.NoError(t, err)
	_, err = repo.Upsert(3, 2, 5, "")
	require.NoError(t, err)

	reviews, err := repo.ListForUsers([]uint{1, 2}, 10)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	empty, err := repo.ListForUsers(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_Delete(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	review, err := repo.Upsert(1, 1, 4, "")
	require.NoError(t, err)

	// Someone else's review cannot be deleted
	err = repo.Delete(review.ID, 2)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.NoError(t, repo.Delete(review.ID, 1))

	err = repo.Delete(review.ID, 1)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestRepository_AverageRating(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	avg, count, err := repo.AverageRating(1)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	_, err = repo.Upsert(1, 1, 4, "")
	require.NoError(t, err)
	_, err = repo.Upsert(2, 1, 5, "")
	require.NoError(t, err)

	avg, count, err = repo.AverageRating(1)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Equal(t, int64(2), count)
}
