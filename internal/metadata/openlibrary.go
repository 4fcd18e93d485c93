// Package metadata fetches book information from the OpenLibrary API.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avelichka/bookshelf/internal/config"
)

// BookMetadata contains book information from OpenLibrary, normalized into
// the fields the catalog stores.
type BookMetadata struct {
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Description   string   `json:"description,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	OpenLibraryID string   `json:"open_library_id,omitempty"`
}

// maxGenres caps how many OpenLibrary subjects we keep as genres.
const maxGenres = 5

// Client fetches book metadata from the OpenLibrary API with rate limiting.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates an OpenLibrary API client.
func NewClient(cfg config.OpenLibrary) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// FetchByISBN looks up a book by ISBN. A missing record returns (nil, nil);
// only transport and decoding problems surface as errors so callers can tell
// "not found" apart from "service unavailable".
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	if isbn == "" {
		return nil, fmt.Errorf("empty ISBN")
	}

	var bookData openLibraryBook
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn), &bookData)
	if err != nil {
		return nil, fmt.Errorf("fetch ISBN data: %w", err)
	}
	if !found {
		return nil, nil
	}

	md := &BookMetadata{
		Title:         bookData.Title,
		ISBN:          isbn,
		PageCount:     bookData.NumberOfPages,
		PublishedDate: bookData.PublishDate,
		OpenLibraryID: bookData.Key,
		CoverURL:      CoverURLForISBN(isbn),
	}

	// Description can be a plain string or a {type, value} object.
	switch v := bookData.Description.(type) {
	case string:
		md.Description = v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			md.Description = val
		}
	}

	if len(bookData.Subjects) > 0 {
		md.Genres = bookData.Subjects
		if len(md.Genres) > maxGenres {
			md.Genres = md.Genres[:maxGenres]
		}
	}

	if len(bookData.Authors) > 0 {
		if name, err := c.fetchAuthorName(ctx, bookData.Authors[0].Key); err == nil {
			md.Author = name
		}
	}

	return md, nil
}

// Search queries the OpenLibrary search endpoint and returns up to limit
// matches normalized into BookMetadata.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]BookMetadata, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=%d&fields=%s",
		c.baseURL, url.QueryEscape(query), limit,
		"key,title,author_name,first_publish_year,isbn,cover_i,number_of_pages_median,subject")

	var result openLibrarySearchResult
	found, err := c.getJSON(ctx, searchURL, &result)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if !found {
		return nil, nil
	}

	matches := make([]BookMetadata, 0, len(result.Docs))
	for i := range result.Docs {
		matches = append(matches, *convertSearchDoc(&result.Docs[i]))
	}
	return matches, nil
}

func (c *Client) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}

	var authorData struct {
		Name string `json:"name"`
	}
	found, err := c.getJSON(ctx, fmt.Sprintf("%s%s.json", c.baseURL, authorKey), &authorData)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("author not found: %s", authorKey)
	}
	return authorData.Name, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
// Returns false without error on a 404 response.
func (c *Client) getJSON(ctx context.Context, url string, out any) (bool, error) {
	c.rateLimiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func convertSearchDoc(doc *openLibrarySearchDoc) *BookMetadata {
	md := &BookMetadata{
		Title:         doc.Title,
		PageCount:     doc.NumberOfPagesMedian,
		OpenLibraryID: doc.Key,
	}

	if doc.FirstPublishYear != 0 {
		md.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
	}
	if len(doc.AuthorName) > 0 {
		md.Author = strings.Join(doc.AuthorName, ", ")
	}
	if len(doc.ISBN) > 0 {
		md.ISBN = doc.ISBN[0]
		md.CoverURL = CoverURLForISBN(doc.ISBN[0])
	} else if doc.CoverI != 0 {
		md.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverI)
	}
	if len(doc.Subject) > 0 {
		md.Genres = doc.Subject
		if len(md.Genres) > maxGenres {
			md.Genres = md.Genres[:maxGenres]
		}
	}

	return md
}

// CoverURLForISBN builds the OpenLibrary cover image URL for an ISBN.
func CoverURLForISBN(isbn string) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)
}

// OpenLibrary API response types (internal)

type openLibraryBook struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Authors       []authorRef `json:"authors"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"` // Can be string or {type, value}
	Subjects      []string    `json:"subjects"`
	Covers        []int       `json:"covers"`
}

type authorRef struct {
	Key string `json:"key"`
}

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	ISBN                []string `json:"isbn"`
	CoverI              int      `json:"cover_i"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Subject             []string `json:"subject"`
}
