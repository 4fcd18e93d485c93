// Command seed_demo creates a demo database with sample users, books, shelves,
// reviews and follows, using public domain titles.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelichka/bookshelf/internal/auth"
	"github.com/avelichka/bookshelf/internal/database"
	"github.com/avelichka/bookshelf/internal/database/books"
	"github.com/avelichka/bookshelf/internal/database/progress"
	"github.com/avelichka/bookshelf/internal/database/reviews"
	"github.com/avelichka/bookshelf/internal/database/shelves"
	"github.com/avelichka/bookshelf/internal/database/users"
	"github.com/avelichka/bookshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// Every demo account logs in with this password.
const demoPassword = "password1"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	usersRepo := users.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	shelvesRepo := shelves.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)

	demoUsers := seedUsers(usersRepo, shelvesRepo)
	demoBooks := seedBooks(booksRepo)

	seedShelves(shelvesRepo, progressRepo, demoUsers, demoBooks)
	seedReviews(reviewsRepo, demoUsers, demoBooks)
	seedFollows(usersRepo, demoUsers)

	log.Println("Demo database generated successfully!")
	log.Printf("All accounts use password %q", demoPassword)
}

func seedUsers(repo *users.Repository, shelfRepo *shelves.Repository) []*entities.User {
	hash, err := auth.HashPassword(demoPassword, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	specs := []struct {
		name  string
		email string
		bio   string
	}{
		{"Ana", "ana@example.com", "Slow reader, fast re-reader."},
		{"Boris", "boris@example.com", "Mostly science fiction and history."},
		{"Clara", "clara@example.com", "Currently working through the classics."},
	}

	created := make([]*entities.User, 0, len(specs))
	for _, spec := range specs {
		user, err := repo.Create(spec.name, spec.email, hash)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", spec.email, err)
		}
		if spec.bio != "" {
			if err := repo.UpdateProfile(user.ID, user.Name, spec.bio, ""); err != nil {
				log.Printf("Failed to set bio for %s: %v", spec.email, err)
			}
		}
		if err := shelfRepo.SeedDefaults(user.ID); err != nil {
			log.Fatalf("Failed to seed shelves for %s: %v", spec.email, err)
		}
		log.Printf("Created user: %s <%s>", user.Name, user.Email)
		created = append(created, user)
	}
	return created
}

func seedBooks(repo *books.Repository) []*entities.Book {
	specs := []books.CreateFields{
		{
			Title:         "Meditations",
			Author:        "Marcus Aurelius",
			ISBN:          "9780140449334",
			Description:   "Private reflections of the Roman emperor on Stoic philosophy and daily conduct.",
			PageCount:     304,
			PublishedDate: "180",
			Genres:        []string{"Philosophy", "Classics"},
		},
		{
			Title:         "Pride and Prejudice",
			Author:        "Jane Austen",
			ISBN:          "9780141439518",
			Description:   "Elizabeth Bennet navigates manners, marriage and Mr. Darcy in Regency England.",
			PageCount:     432,
			PublishedDate: "1813",
			Genres:        []string{"Fiction", "Classics", "Romance"},
		},
		{
			Title:         "The Time Machine",
			Author:        "H. G. Wells",
			ISBN:          "9780553213515",
			Description:   "A Victorian scientist travels to the year 802,701 and finds humanity split in two.",
			PageCount:     118,
			PublishedDate: "1895",
			Genres:        []string{"Science Fiction", "Classics"},
		},
		{
			Title:         "Frankenstein",
			Author:        "Mary Shelley",
			ISBN:          "9780141439471",
			Description:   "Victor Frankenstein brings a creature to life and abandons it to the world.",
			PageCount:     288,
			PublishedDate: "1818",
			Genres:        []string{"Horror", "Classics", "Science Fiction"},
		},
		{
			Title:  "The Art of War",
			Author: "Sun Tzu",
			ISBN:   "9781590302255",
			Genres: []string{"Philosophy", "History"},
		},
	}

	created := make([]*entities.Book, 0, len(specs))
	for _, fields := range specs {
		book, err := repo.Create(fields)
		if err != nil {
			log.Fatalf("Failed to create book %s: %v", fields.Title, err)
		}
		log.Printf("Created book: %s by %s", book.Title, book.Author)
		created = append(created, book)
	}
	return created
}

func seedShelves(shelfRepo *shelves.Repository, progressRepo *progress.Repository, demoUsers []*entities.User, demoBooks []*entities.Book) {
	ana, boris, clara := demoUsers[0], demoUsers[1], demoUsers[2]
	meditations, pride, timeMachine, frankenstein, artOfWar := demoBooks[0], demoBooks[1], demoBooks[2], demoBooks[3], demoBooks[4]

	markRead(shelfRepo, progressRepo, ana, meditations, 40)
	markRead(shelfRepo, progressRepo, ana, pride, 25)
	markReading(shelfRepo, progressRepo, ana, frankenstein, 120)

	markRead(shelfRepo, progressRepo, boris, timeMachine, 10)
	markReading(shelfRepo, progressRepo, boris, artOfWar, 30)
	markWanted(shelfRepo, boris, frankenstein)

	markReading(shelfRepo, progressRepo, clara, pride, 210)
	markWanted(shelfRepo, clara, meditations)
	markWanted(shelfRepo, clara, timeMachine)
}

func markRead(shelfRepo *shelves.Repository, progressRepo *progress.Repository, user *entities.User, book *entities.Book, daysAgo int) {
	assign(shelfRepo, user, book, entities.ShelfKindRead)
	finishedAt := time.Now().AddDate(0, 0, -daysAgo)
	if err := progressRepo.SetFinished(user.ID, book.ID, finishedAt, book.PageCount); err != nil {
		log.Printf("Failed to record finished read for %s: %v", user.Name, err)
	}
}

func markReading(shelfRepo *shelves.Repository, progressRepo *progress.Repository, user *entities.User, book *entities.Book, page int) {
	assign(shelfRepo, user, book, entities.ShelfKindCurrentlyReading)
	if _, err := progressRepo.UpdatePage(user.ID, book.ID, page); err != nil {
		log.Printf("Failed to record progress for %s: %v", user.Name, err)
	}
}

func markWanted(shelfRepo *shelves.Repository, user *entities.User, book *entities.Book) {
	assign(shelfRepo, user, book, entities.ShelfKindWantToRead)
}

func assign(shelfRepo *shelves.Repository, user *entities.User, book *entities.Book, kind entities.ShelfKind) {
	shelf, err := shelfRepo.FindDefault(user.ID, kind)
	if err != nil {
		log.Fatalf("Failed to find %s shelf for %s: %v", kind, user.Name, err)
	}
	if err := shelfRepo.Assign(shelf.ID, book.ID, user.ID); err != nil {
		log.Printf("Failed to shelve %s for %s: %v", book.Title, user.Name, err)
	}
}

func seedReviews(repo *reviews.Repository, demoUsers []*entities.User, demoBooks []*entities.Book) {
	ana, boris, clara := demoUsers[0], demoUsers[1], demoUsers[2]
	meditations, pride, timeMachine := demoBooks[0], demoBooks[1], demoBooks[2]

	specs := []struct {
		user    *entities.User
		book    *entities.Book
		rating  int
		content string
	}{
		{ana, meditations, 5, "Short entries, endless re-reads. The kind of book you keep by the bed."},
		{ana, pride, 4, "The dialogue alone is worth it."},
		{boris, timeMachine, 4, "Still sharp after a century. The Eloi chapters drag a little."},
		{clara, pride, 5, ""},
	}

	for _, spec := range specs {
		if _, err := repo.Upsert(spec.user.ID, spec.book.ID, spec.rating, spec.content); err != nil {
			log.Printf("Failed to create review by %s: %v", spec.user.Name, err)
		}
	}
}

func seedFollows(repo *users.Repository, demoUsers []*entities.User) {
	ana, boris, clara := demoUsers[0], demoUsers[1], demoUsers[2]

	pairs := [][2]*entities.User{
		{ana, boris},
		{ana, clara},
		{boris, ana},
		{clara, ana},
		{clara, boris},
	}

	for _, pair := range pairs {
		if err := repo.Follow(pair[0].ID, pair[1].ID); err != nil {
			log.Printf("Failed to follow %s -> %s: %v", pair[0].Name, pair[1].Name, err)
		}
	}
}
