package goodreads

import (
	"strings"
	"time"

	"github.com/avelichka/bookshelf/internal/entities"
)

// CleanISBN strips the Excel-guard prefix Goodreads wraps ISBNs in
// (`="0123456789"`) and validates the remainder. Returns "" for anything
// that is not exactly 10 digits, 13 digits, or 9 digits plus an X check
// digit (normalized to uppercase).
func CleanISBN(raw string) string {
	cleaned := strings.TrimLeft(raw, `="`)
	cleaned = strings.TrimRight(cleaned, `"`)
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case isDigits(cleaned) && (len(cleaned) == 10 || len(cleaned) == 13):
		return cleaned
	case len(cleaned) == 10 && isDigits(cleaned[:9]) && (cleaned[9] == 'X' || cleaned[9] == 'x'):
		return strings.ToUpper(cleaned)
	default:
		return ""
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseDate parses the Goodreads YYYY/MM/DD date format into a local
// midnight timestamp. Any other shape returns nil.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006/1/2", raw, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// MapExclusiveShelf maps the Goodreads exclusive-shelf column to one of the
// default shelf kinds. Unrecognized values (including "") map to
// ShelfKindNone rather than erroring.
func MapExclusiveShelf(raw string) entities.ShelfKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "read":
		return entities.ShelfKindRead
	case "currently-reading":
		return entities.ShelfKindCurrentlyReading
	case "to-read":
		return entities.ShelfKindWantToRead
	default:
		return entities.ShelfKindNone
	}
}

// SplitBookshelves splits the free-text bookshelves column on commas,
// trimming each label and dropping empties. Order and duplicates are kept.
func SplitBookshelves(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
