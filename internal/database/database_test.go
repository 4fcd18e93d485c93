package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func TestNewDatabase_Migrates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{
		"users", "books", "shelves", "shelf_books",
		"reviews", "reading_progress", "follows", "import_sessions",
	} {
		assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestMigrate_ISBNUniqueOnlyWhenPresent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.DB.Create(&entities.Book{Title: "A", Author: "X", ISBN: "9780441013593"}).Error)

	// Duplicate non-empty ISBN is rejected
	err := db.DB.Create(&entities.Book{Title: "B", Author: "Y", ISBN: "9780441013593"}).Error
	assert.Error(t, err)

	// Empty ISBNs never collide
	require.NoError(t, db.DB.Create(&entities.Book{Title: "C", Author: "Z"}).Error)
	require.NoError(t, db.DB.Create(&entities.Book{Title: "D", Author: "W"}).Error)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, Migrate(db.DB))
}
