package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/database"
	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// EnrichBooksCommand fetches OpenLibrary metadata for stored books that are
// still missing it, synchronously and without the task queue.
type EnrichBooksCommand struct {
	DatabasePath string
	Batch        int
	DryRun       bool
}

func NewEnrichBooksCommand() *EnrichBooksCommand {
	return &EnrichBooksCommand{}
}

func (cmd *EnrichBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("enrich-books", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.Batch, "batch", 50, "Maximum number of books to enrich in one run")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List the books that would be enriched without fetching")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s enrich-books [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch missing metadata from OpenLibrary for books with an ISBN.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *EnrichBooksCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	booksRepo := books.NewRepository(db.DB)
	candidates, err := booksRepo.MissingMetadata(cmd.Batch)
	if err != nil {
		return fmt.Errorf("list books missing metadata: %w", err)
	}
	if len(candidates) == 0 {
		fmt.Println("Nothing to enrich")
		return nil
	}
	fmt.Printf("Found %d books missing metadata\n", len(candidates))

	if cmd.DryRun {
		for _, book := range candidates {
			fmt.Printf("  would enrich: %s - %s (ISBN %s)\n", book.Title, book.Author, book.ISBN)
		}
		return nil
	}

	client := metadata.NewClient(config.NewConfig().OpenLibrary)
	enriched, failed := 0, 0

	for _, book := range candidates {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		md, err := client.FetchByISBN(ctx, book.ISBN)
		cancel()
		if err != nil {
			fmt.Printf("  fetch failed for %q (ISBN %s): %v\n", book.Title, book.ISBN, err)
			failed++
			continue
		}
		if md == nil {
			fmt.Printf("  no OpenLibrary record for %q (ISBN %s)\n", book.Title, book.ISBN)
			continue
		}
		if err := booksRepo.ApplyMetadata(book.ID, md); err != nil {
			fmt.Printf("  update failed for %q: %v\n", book.Title, err)
			failed++
			continue
		}
		enriched++
	}

	fmt.Printf("\nEnriched: %d\nFailed:   %d\n", enriched, failed)
	return nil
}
