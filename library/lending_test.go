package library

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowBookValidInput(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	borrowedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	setClock(svc, borrowedAt)

	msg, err := svc.BorrowBook("123456", book.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "Successfully borrowed")
	assert.Contains(t, msg, borrowedAt.AddDate(0, 0, 14).Format("2006-01-02"))

	after, err := svc.store.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, after.AvailableCopies)

	records, err := svc.store.GetPatronBorrowedBooks("123456")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, book.ID, records[0].BookID)
	assert.True(t, records[0].Outstanding())
	assert.Equal(t, borrowedAt.AddDate(0, 0, 14), records[0].DueDate)
}

func TestBorrowBookInvalidPatronID(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	for _, patronID := range []string{"", "12345", "1234567", "12345a", "abcdef"} {
		_, err := svc.BorrowBook(patronID, book.ID)
		require.Error(t, err, "patron id %q", patronID)
		assert.Equal(t, "Invalid patron ID. Must be exactly 6 digits.", err.Error())

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	}
}

func TestBorrowBookNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.BorrowBook("123456", 99999)
	require.Error(t, err)
	assert.Equal(t, "Book not found.", err.Error())

	var nerr *NotFoundError
	assert.True(t, errors.As(err, &nerr))
}

func TestBorrowBookNoAvailableCopies(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 1)

	_, err := svc.BorrowBook("123456", book.ID)
	require.NoError(t, err)

	_, err = svc.BorrowBook("123457", book.ID)
	require.Error(t, err)
	assert.Equal(t, "This book is currently not available.", err.Error())

	var cerr *ConflictError
	assert.True(t, errors.As(err, &cerr))
}

func TestBorrowBookLimitReached(t *testing.T) {
	svc := newTestService(t)

	var books []*Book
	for i := 0; i < 6; i++ {
		isbn := fmt.Sprintf("%013d", i+1)
		books = append(books, addTestBook(t, svc, isbn, 5))
	}

	for i := 0; i < 5; i++ {
		_, err := svc.BorrowBook("123456", books[i].ID)
		require.NoError(t, err, "borrow %d", i+1)
	}

	_, err := svc.BorrowBook("123456", books[5].ID)
	require.Error(t, err)
	assert.Equal(t, "You have reached the maximum borrowing limit of 5 books.", err.Error())

	// Returning one book frees a slot.
	_, err = svc.ReturnBook("123456", books[0].ID)
	require.NoError(t, err)
	_, err = svc.BorrowBook("123456", books[5].ID)
	require.NoError(t, err)
}

func TestReturnBookRoundTrip(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	_, err := svc.BorrowBook("123456", book.ID)
	require.NoError(t, err)

	msg, err := svc.ReturnBook("123456", book.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "successfully returned")
	assert.NotContains(t, msg, "Late fee")

	after, err := svc.store.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.AvailableCopies)

	history, err := svc.store.GetPatronBorrowHistory("123456")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].ReturnDate)
}

func TestReturnBookOverdueReportsFee(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	borrowedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	setClock(svc, borrowedAt)
	_, err := svc.BorrowBook("123456", book.ID)
	require.NoError(t, err)

	// Due after 14 days, returned 19 days in: 5 days overdue at $0.50.
	setClock(svc, borrowedAt.AddDate(0, 0, 19))
	msg, err := svc.ReturnBook("123456", book.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "successfully returned")
	assert.Contains(t, msg, "$2.50")
	assert.Contains(t, msg, "5 days overdue")
}

func TestReturnBookInvalidPatronID(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	_, err := svc.ReturnBook("12x456", book.ID)
	require.Error(t, err)
	assert.Equal(t, "This is an invalid patron ID. Must be exactly 6 digits.", err.Error())
}

func TestReturnBookUnknownBook(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ReturnBook("123456", 99999)
	require.Error(t, err)
	assert.Equal(t, "This is an invalid book.", err.Error())
}

func TestReturnBookNotBorrowed(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	_, err := svc.ReturnBook("123456", book.ID)
	require.Error(t, err)
	assert.Equal(t, "Not currently borrowed by this patron.", err.Error())

	var cerr *ConflictError
	assert.True(t, errors.As(err, &cerr))
}

func TestReturnBookTwiceFails(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 5)

	_, err := svc.BorrowBook("123456", book.ID)
	require.NoError(t, err)
	_, err = svc.ReturnBook("123456", book.ID)
	require.NoError(t, err)

	_, err = svc.ReturnBook("123456", book.ID)
	require.Error(t, err)
	assert.Equal(t, "Not currently borrowed by this patron.", err.Error())
}

// TestAvailabilityBounds drives a book through borrow/return sequences and
// checks available_copies never leaves [0, total_copies].
func TestAvailabilityBounds(t *testing.T) {
	svc := newTestService(t)
	book := addTestBook(t, svc, "1234567890123", 2)

	patrons := []string{"111111", "222222", "333333"}

	_, err := svc.BorrowBook(patrons[0], book.ID)
	require.NoError(t, err)
	_, err = svc.BorrowBook(patrons[1], book.ID)
	require.NoError(t, err)

	// Third borrow cannot push the count below zero.
	_, err = svc.BorrowBook(patrons[2], book.ID)
	require.Error(t, err)

	current, err := svc.store.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.AvailableCopies)

	_, err = svc.ReturnBook(patrons[0], book.ID)
	require.NoError(t, err)
	_, err = svc.ReturnBook(patrons[1], book.ID)
	require.NoError(t, err)

	current, err = svc.store.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.AvailableCopies)

	// A stray increment past total_copies is rejected by storage.
	err = svc.store.UpdateBookAvailability(book.ID, 1)
	require.Error(t, err)
}
