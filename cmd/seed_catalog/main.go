package main

import (
	"fmt"
	"os"
	"strings"

	"library-management/library"

	"github.com/joho/godotenv"
)

// starterCatalog maps ISBNs to {title, author}.
var starterCatalog = map[string][2]string{
	"9780451524935": {"1984", "George Orwell"},
	"9780452284241": {"Animal Farm", "George Orwell"},
	"9780553296983": {"The Diary of a Young Girl", "Anne Frank"},
	"9781590302255": {"The Art of War", "Sun Tzu"},
	"9780547928210": {"The Fellowship of the Ring", "J.R.R. Tolkien"},
	"9780547928203": {"The Two Towers", "J.R.R. Tolkien"},
	"9780547928197": {"The Return of the King", "J.R.R. Tolkien"},
	"9780743477116": {"Romeo and Juliet", "William Shakespeare"},
	"9780895772138": {"The Three Musketeers", "Alexandre Dumas"},
}

const copiesPerBook = 5

func main() {
	_ = godotenv.Load()
	dbFile := os.Getenv("LIBRARY_DB")
	if dbFile == "" {
		dbFile = "library.db"
	}

	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbFile, dbFile + "-shm", dbFile + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	db, err := library.NewDatabase(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := library.NewService(db)

	fmt.Println("Seeding starter catalog...")
	successCount := 0
	errorCount := 0

	for isbn, meta := range starterCatalog {
		title, author := meta[0], meta[1]
		fmt.Printf("Adding: %s by %s... ", title, author)

		if _, err := svc.AddBookToCatalog(title, author, isbn, copiesPerBook); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Println("SUCCESS")
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Successfully added: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCatalog:")
		books, err := db.GetAllBooks()
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Printf("%-3s %-40s %-25s %-15s %s\n", "ID", "Title", "Author", "ISBN", "Copies")
		fmt.Println(strings.Repeat("-", 95))
		for _, book := range books {
			fmt.Printf("%-3d %-40s %-25s %-15s %d/%d\n",
				book.ID, truncateString(book.Title, 40), truncateString(book.Author, 25),
				book.ISBN, book.AvailableCopies, book.TotalCopies)
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
