package goodreads

import (
	"fmt"
	"strconv"
	"strings"
)

// Goodreads export column names. Only Title and Author are mandatory.
const (
	colTitle          = "Title"
	colAuthor         = "Author"
	colISBN           = "ISBN"
	colISBN13         = "ISBN13"
	colMyRating       = "My Rating"
	colDateRead       = "Date Read"
	colDateAdded      = "Date Added"
	colExclusiveShelf = "Exclusive Shelf"
	colBookshelves    = "Bookshelves"
)

// MissingColumnError reports a required column absent from the CSV header.
// It aborts the whole import before any row is processed.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// Parse converts raw Goodreads CSV text into an ordered slice of Records.
//
// The first line is the header; rows missing a Title or Author after trimming
// are dropped silently, blank lines are skipped. Empty input (or a lone
// header line with no newline) yields an empty slice. The only fatal
// condition is a header without the Title or Author column.
//
// Goodreads exports quote fields containing commas and escape embedded
// quotes by doubling them; the splitter handles both. encoding/csv is not
// used here because real exports contain bare quotes and unterminated quoted
// fields that it rejects, while Goodreads expects them carried through.
func Parse(csvText string) ([]Record, error) {
	lines := strings.Split(csvText, "\n")
	if len(lines) < 2 {
		return []Record{}, nil
	}

	headers := splitLine(lines[0])
	columnIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		columnIndex[strings.TrimSpace(h)] = i
	}

	for _, col := range []string{colTitle, colAuthor} {
		if _, ok := columnIndex[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	records := make([]Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		values := splitLine(line)
		field := func(col string) string {
			idx, ok := columnIndex[col]
			if !ok || idx >= len(values) {
				return ""
			}
			return strings.TrimSpace(values[idx])
		}

		title := field(colTitle)
		author := field(colAuthor)
		if title == "" || author == "" {
			continue
		}

		rating := 0
		if n, err := strconv.Atoi(field(colMyRating)); err == nil {
			rating = n
		}

		records = append(records, Record{
			Title:       title,
			Author:      author,
			ISBN10:      CleanISBN(field(colISBN)),
			ISBN13:      CleanISBN(field(colISBN13)),
			Rating:      rating,
			DateRead:    ParseDate(field(colDateRead)),
			DateAdded:   ParseDate(field(colDateAdded)),
			Shelf:       MapExclusiveShelf(field(colExclusiveShelf)),
			Bookshelves: SplitBookshelves(field(colBookshelves)),
		})
	}

	return records, nil
}

// splitLine splits one CSV line on commas, honoring double-quoted fields.
// A doubled quote inside a quoted field is an escaped literal quote.
func splitLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	result = append(result, current.String())
	return result
}
