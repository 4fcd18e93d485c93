// Package cli implements the command-line subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/database"
	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/database/imports"
	"github.com/avelichka/bookshelf/internal/database/progress"
	"github.com/avelichka/bookshelf/internal/database/reviews"
	"github.com/avelichka/bookshelf/internal/database/shelves"
	"github.com/avelichka/bookshelf/internal/database/users"
	"github.com/avelichka/bookshelf/internal/goodreads"
	"github.com/avelichka/bookshelf/internal/importers"
	"github.com/avelichka/bookshelf/internal/metadata"
)

// GoodreadsImportCommand imports a Goodreads CSV export for a user without
// going through the HTTP API.
type GoodreadsImportCommand struct {
	FilePath     string
	DatabasePath string
	Email        string
	SkipMetadata bool
	Verbose      bool
}

func NewGoodreadsImportCommand() *GoodreadsImportCommand {
	return &GoodreadsImportCommand{}
}

func (cmd *GoodreadsImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("goodreads-import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the Goodreads CSV export (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Email, "user", "", "Email of the user to import for (required)")
	fs.BoolVar(&cmd.SkipMetadata, "skip-metadata", false, "Skip OpenLibrary lookups and create books from CSV data only")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print the outcome of every row")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s goodreads-import -file <path> -user <email> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a Goodreads library export into a user's shelves.\n\n")
		fmt.Fprintf(os.Stderr, "Get the export from Goodreads via:\n")
		fmt.Fprintf(os.Stderr, "  My Books > Import and export > Export Library\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s goodreads-import -file goodreads_library_export.csv -user ana@example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.Email == "" {
		return fmt.Errorf("required flag -user not provided")
	}

	return nil
}

func (cmd *GoodreadsImportCommand) Run() error {
	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("read export file: %w", err)
	}

	records, err := goodreads.Parse(string(content))
	if err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	fmt.Printf("Parsed %d rows from %s\n", len(records), cmd.FilePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	usersRepo := users.NewRepository(db.DB)
	user, err := usersRepo.GetByEmail(cmd.Email)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no user with email %s", cmd.Email)
	}

	booksRepo := books.NewRepository(db.DB)
	shelvesRepo := shelves.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	importsRepo := imports.NewRepository(db.DB)

	var fetcher importers.MetadataClient
	if cmd.SkipMetadata {
		fetcher = noMetadata{}
	} else {
		fetcher = metadata.NewClient(config.NewConfig().OpenLibrary)
	}

	importer := importers.NewImporter(booksRepo, fetcher, shelvesRepo, reviewsRepo, progressRepo, nil)

	session, err := importsRepo.Begin(user.ID)
	if err != nil {
		return fmt.Errorf("begin import session: %w", err)
	}

	summary := importer.Run(context.Background(), user.ID, records)

	if err := importsRepo.Complete(session.ID, summary.Imported, summary.Skipped, summary.Errors); err != nil {
		return fmt.Errorf("record import session: %w", err)
	}

	fmt.Printf("\nImported: %d\nSkipped:  %d\n", summary.Imported, summary.Skipped)
	for _, msg := range summary.Errors {
		fmt.Printf("  error: %s\n", msg)
	}
	if cmd.Verbose {
		fmt.Println()
		for _, outcome := range summary.Books {
			fmt.Printf("  [%s] %s - %s\n", outcome.Status, outcome.Title, outcome.Author)
		}
	}

	return nil
}

// noMetadata disables external lookups; every book is created from CSV data.
type noMetadata struct{}

func (noMetadata) FetchByISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error) {
	return nil, nil
}
