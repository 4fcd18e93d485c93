// Package goodreads parses Goodreads library export CSV files into typed
// records ready for reconciliation against the book catalog.
package goodreads

import (
	"time"

	"github.com/avelichka/bookshelf/internal/entities"
)

// Record is one row of a Goodreads export after normalization.
// Optional fields use zero values for "absent": empty string for ISBNs and
// the shelf, nil for dates, 0 for the rating.
type Record struct {
	Title       string
	Author      string
	ISBN10      string
	ISBN13      string
	Rating      int
	DateRead    *time.Time
	DateAdded   *time.Time
	Shelf       entities.ShelfKind
	Bookshelves []string
}

// ISBN returns the preferred ISBN for lookups: the 13-digit form when both
// are present, otherwise whichever exists, otherwise "".
func (r Record) ISBN() string {
	if r.ISBN13 != "" {
		return r.ISBN13
	}
	return r.ISBN10
}
