package entities

import (
	"time"

	"gorm.io/gorm"
)

// ShelfKind identifies one of the three default shelves every user gets at
// registration. Custom shelves have ShelfKindNone.
type ShelfKind string

const (
	ShelfKindRead             ShelfKind = "read"
	ShelfKindCurrentlyReading ShelfKind = "currently-reading"
	ShelfKindWantToRead       ShelfKind = "to-read"
	ShelfKindNone             ShelfKind = ""
)

// DisplayName returns the human-facing shelf name for a default shelf kind.
func (k ShelfKind) DisplayName() string {
	switch k {
	case ShelfKindRead:
		return "Read"
	case ShelfKindCurrentlyReading:
		return "Currently Reading"
	case ShelfKindWantToRead:
		return "Want to Read"
	default:
		return ""
	}
}

// DefaultShelfKinds lists the shelves seeded for every new user.
var DefaultShelfKinds = []ShelfKind{
	ShelfKindWantToRead,
	ShelfKindCurrentlyReading,
	ShelfKindRead,
}

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:100" json:"-"`
	Bio          string         `gorm:"size:1024" json:"bio,omitempty"`
	AvatarURL    string         `gorm:"size:2048" json:"avatar_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Author        string    `gorm:"index;size:256" json:"author"`
	ISBN          string    `gorm:"index;size:20" json:"isbn,omitempty"`
	OpenLibraryID string    `gorm:"index;size:64" json:"open_library_id,omitempty"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CoverURL      string    `gorm:"size:2048" json:"cover_url,omitempty"`
	PageCount     int       `json:"page_count,omitempty"`
	PublishedDate string    `gorm:"size:32" json:"published_date,omitempty"`
	Genres        string    `gorm:"size:1024" json:"-"` // comma-separated, see GenreList
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GenreList splits the stored genre string into individual genres.
func (b *Book) GenreList() []string {
	if b.Genres == "" {
		return nil
	}
	var genres []string
	start := 0
	for i := 0; i <= len(b.Genres); i++ {
		if i == len(b.Genres) || b.Genres[i] == ',' {
			if g := b.Genres[start:i]; g != "" {
				genres = append(genres, g)
			}
			start = i + 1
		}
	}
	return genres
}

type Shelf struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"uniqueIndex:idx_shelves_user_name" json:"user_id"`
	Name      string      `gorm:"uniqueIndex:idx_shelves_user_name;size:100" json:"name"`
	Kind      ShelfKind   `gorm:"size:20" json:"kind,omitempty"`
	IsDefault bool        `gorm:"default:false" json:"is_default"`
	User      User        `gorm:"foreignKey:UserID" json:"-"`
	Items     []ShelfBook `gorm:"foreignKey:ShelfID" json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ShelfBook links a book to a shelf. The composite unique index makes
// re-adding a book to the same shelf an upsert no-op.
type ShelfBook struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	ShelfID uint      `gorm:"uniqueIndex:idx_shelf_books_shelf_book" json:"shelf_id"`
	BookID  uint      `gorm:"uniqueIndex:idx_shelf_books_shelf_book" json:"book_id"`
	Shelf   Shelf     `gorm:"foreignKey:ShelfID" json:"-"`
	Book    Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_reviews_user_book" json:"book_id"`
	Rating    int       `json:"rating"`
	Content   string    `gorm:"type:text" json:"content,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Book      Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReadingProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex:idx_progress_user_book" json:"user_id"`
	BookID      uint       `gorm:"uniqueIndex:idx_progress_user_book" json:"book_id"`
	CurrentPage int        `json:"current_page"`
	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	User        User       `gorm:"foreignKey:UserID" json:"-"`
	Book        Book       `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"uniqueIndex:idx_follows_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"uniqueIndex:idx_follows_pair" json:"followee_id"`
	Follower   User      `gorm:"foreignKey:FollowerID" json:"-"`
	Followee   User      `gorm:"foreignKey:FolloweeID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ImportSession records the outcome of one Goodreads CSV import run.
type ImportSession struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Token       string       `gorm:"uniqueIndex;size:36" json:"token"`
	UserID      uint         `gorm:"index" json:"user_id"`
	Status      ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	Imported    int          `json:"imported"`
	Skipped     int          `json:"skipped"`
	Errors      string       `gorm:"type:text" json:"errors,omitempty"` // JSON array
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	User        User         `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string            { return "users" }
func (Book) TableName() string            { return "books" }
func (Shelf) TableName() string           { return "shelves" }
func (ShelfBook) TableName() string       { return "shelf_books" }
func (Review) TableName() string          { return "reviews" }
func (ReadingProgress) TableName() string { return "reading_progress" }
func (Follow) TableName() string          { return "follows" }
func (ImportSession) TableName() string   { return "import_sessions" }
