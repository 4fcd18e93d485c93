package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUserAgent identifies us to the OpenLibrary API
	DefaultUserAgent = "Bookshelf/1.0 (https://github.com/avelichka/bookshelf)"

	// DefaultMaxUploadBytes caps Goodreads CSV uploads at 10MB
	DefaultMaxUploadBytes = 10 * 1024 * 1024
)
