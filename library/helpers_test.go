package library

import (
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(tempDB(t))
}

// setClock pins the service's notion of now, so tests can borrow a book and
// then jump forward to make the loan overdue.
func setClock(svc *Service, at time.Time) {
	svc.now = func() time.Time { return at }
}

func addTestBook(t *testing.T, svc *Service, isbn string, copies int) *Book {
	t.Helper()
	if _, err := svc.AddBookToCatalog("Test Book", "Test Author", isbn, copies); err != nil {
		t.Fatalf("add book: %v", err)
	}
	book, err := svc.store.GetBookByISBN(isbn)
	if err != nil || book == nil {
		t.Fatalf("get book by isbn %s: %v", isbn, err)
	}
	return book
}
