package shelves

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
	dbPath := "./test_shelves_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Shelf{},
		&entities.ShelfBook{},
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

func createBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	book := &entities.Book{Title: title, Author: "Author"}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_SeedDefaults(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))

	shelves, err := repo.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, shelves, 3)
	for _, shelf := range shelves {
		assert.True(t, shelf.IsDefault)
	}

	// Repeating the seed must not duplicate shelves
	require.NoError(t, repo.SeedDefaults(1))
	shelves, err = repo.ListForUser(1)
	require.NoError(t, err)
	assert.Len(t, shelves, 3)
}

func TestRepository_FindDefault(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))

	read, err := repo.FindDefault(1, entities.ShelfKindRead)
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, "Read", read.Name)

	none, err := repo.FindDefault(1, entities.ShelfKindNone)
	require.NoError(t, err)
	assert.Nil(t, none)

	otherUser, err := repo.FindDefault(2, entities.ShelfKindRead)
	require.NoError(t, err)
	assert.Nil(t, otherUser)
}

func TestRepository_CreateAndDelete(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create(1, "Sci-Fi Favourites")
	require.NoError(t, err)
	assert.False(t, shelf.IsDefault)

	require.NoError(t, repo.Delete(shelf.ID, 1))

	_, err = repo.GetByID(shelf.ID)
	assert.ErrorIs(t, err, ErrShelfNotFound)
}

func TestRepository_Delete_DefaultShelfRejected(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))
	read, err := repo.FindDefault(1, entities.ShelfKindRead)
	require.NoError(t, err)

	err = repo.Delete(read.ID, 1)
	assert.ErrorIs(t, err, ErrDefaultShelf)
}

func TestRepository_Delete_OtherUsersShelf(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create(1, "Mine")
	require.NoError(t, err)

	err = repo.Delete(shelf.ID, 2)
	assert.ErrorIs(t, err, ErrShelfNotFound)
}

func TestRepository_Assign_Idempotent(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create(1, "Favourites")
	require.NoError(t, err)
	book := createBook(t, db, "Dune")

	require.NoError(t, repo.Assign(shelf.ID, book.ID, 1))
	require.NoError(t, repo.Assign(shelf.ID, book.ID, 1))

	loaded, err := repo.GetByID(shelf.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
}

func TestRepository_Assign_DefaultShelvesAreExclusive(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))
	reading, err := repo.FindDefault(1, entities.ShelfKindCurrentlyReading)
	require.NoError(t, err)
	read, err := repo.FindDefault(1, entities.ShelfKindRead)
	require.NoError(t, err)
	book := createBook(t, db, "Dune")

	require.NoError(t, repo.Assign(reading.ID, book.ID, 1))
	require.NoError(t, repo.Assign(read.ID, book.ID, 1))

	fromReading, err := repo.GetByID(reading.ID)
	require.NoError(t, err)
	assert.Empty(t, fromReading.Items)

	fromRead, err := repo.GetByID(read.ID)
	require.NoError(t, err)
	assert.Len(t, fromRead.Items, 1)
}

func TestRepository_Assign_CustomShelvesAreNot(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))
	read, err := repo.FindDefault(1, entities.ShelfKindRead)
	require.NoError(t, err)
	custom, err := repo.Create(1, "Favourites")
	require.NoError(t, err)
	book := createBook(t, db, "Dune")

	require.NoError(t, repo.Assign(read.ID, book.ID, 1))
	require.NoError(t, repo.Assign(custom.ID, book.ID, 1))

	fromRead, err := repo.GetByID(read.ID)
	require.NoError(t, err)
	assert.Len(t, fromRead.Items, 1)

	fromCustom, err := repo.GetByID(custom.ID)
	require.NoError(t, err)
	assert.Len(t, fromCustom.Items, 1)
}

func TestRepository_Remove(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create(1, "Favourites")
	require.NoError(t, err)
	book := createBook(t, db, "Dune")
	require.NoError(t, repo.Assign(shelf.ID, book.ID, 1))

	require.NoError(t, repo.Remove(shelf.ID, book.ID, 1))

	loaded, err := repo.GetByID(shelf.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestRepository_RecentDefaultShelfAdds(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedDefaults(1))
	require.NoError(t, repo.SeedDefaults(2))

	read1, err := repo.FindDefault(1, entities.ShelfKindRead)
	require.NoError(t, err)
	read2, err := repo.FindDefault(2, entities.ShelfKindRead)
	require.NoError(t, err)
	custom, err := repo.Create(1, "Favourites")
	require.NoError(t, err)

	dune := createBook(t, db, "Dune")
	hobbit := createBook(t, db, "The Hobbit")

	require.NoError(t, repo.Assign(read1.ID, dune.ID, 1))
	require.NoError(t, repo.Assign(read2.ID, hobbit.ID, 2))
	require.NoError(t, repo.Assign(custom.ID, hobbit.ID, 1))

	// Only user 1's default-shelf adds
	items, err := repo.RecentDefaultShelfAdds([]uint{1}, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, dune.ID, items[0].BookID)
	assert.Equal(t, "Dune", items[0].Book.Title)

	items, err = repo.RecentDefaultShelfAdds([]uint{1, 2}, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.RecentDefaultShelfAdds(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
