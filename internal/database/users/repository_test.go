package users

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

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
		&entities.Review{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.Create("Ana", "ana@example.com", "hashed")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byID, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	byEmail, err := repo.GetByEmail("ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	missing, err := repo.GetByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Ana", "ana@example.com", "hash1")
	require.NoError(t, err)

	_, err = repo.Create("Other Ana", "ana@example.com", "hash2")
	assert.Error(t, err)
}

func TestRepository_UpdateProfile(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Create("Ana", "ana@example.com", "hashed")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateProfile(user.ID, "Ana K.", "Reads a lot.", "https://example.com/a.png"))

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana K.", updated.Name)
	assert.Equal(t, "Reads a lot.", updated.Bio)
	assert.Equal(t, "https://example.com/a.png", updated.AvatarURL)
}

func TestRepository_Follow(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)
	boris, err := repo.Create("Boris", "boris@example.com", "h")
	require.NoError(t, err)

	require.NoError(t, repo.Follow(ana.ID, boris.ID))

	following, err := repo.IsFollowing(ana.ID, boris.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := repo.IsFollowing(boris.ID, ana.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	// Following twice is a no-op
	require.NoError(t, repo.Follow(ana.ID, boris.ID))
	followers, err := repo.Followers(boris.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 1)
}

func TestRepository_Follow_Self(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)

	err = repo.Follow(ana.ID, ana.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestRepository_Follow_UnknownFollowee(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)

	err = repo.Follow(ana.ID, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Unfollow(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)
	boris, err := repo.Create("Boris", "boris@example.com", "h")
	require.NoError(t, err)

	require.NoError(t, repo.Follow(ana.ID, boris.ID))
	require.NoError(t, repo.Unfollow(ana.ID, boris.ID))

	following, err := repo.IsFollowing(ana.ID, boris.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing when not following is a no-op
	require.NoError(t, repo.Unfollow(ana.ID, boris.ID))
}

func TestRepository_FollowLists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)
	boris, err := repo.Create("Boris", "boris@example.com", "h")
	require.NoError(t, err)
	clara, err := repo.Create("Clara", "clara@example.com", "h")
	require.NoError(t, err)

	require.NoError(t, repo.Follow(ana.ID, boris.ID))
	require.NoError(t, repo.Follow(ana.ID, clara.ID))
	require.NoError(t, repo.Follow(boris.ID, ana.ID))

	following, err := repo.Following(ana.ID)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	followers, err := repo.Followers(ana.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "Boris", followers[0].Name)

	ids, err := repo.FollowingIDs(ana.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{boris.ID, clara.ID}, ids)
}

func TestRepository_ProfileCounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ana, err := repo.Create("Ana", "ana@example.com", "h")
	require.NoError(t, err)
	boris, err := repo.Create("Boris", "boris@example.com", "h")
	require.NoError(t, err)

	require.NoError(t, repo.Follow(boris.ID, ana.ID))
	require.NoError(t, repo.db.Create(&entities.Review{UserID: ana.ID, BookID: 1, Rating: 5}).Error)

	followers, following, reviews, err := repo.ProfileCounts(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, int64(0), following)
	assert.Equal(t, int64(1), reviews)
}
