package library

import "fmt"

// BorrowBook lends a book to a patron for the 14-day loan period. It checks
// patron id format, book existence, availability and the 5-book borrowing
// limit, then writes the ledger record and decrements availability. The two
// writes are not atomic: a failure in either step is reported for that step
// and no compensating rollback is attempted.
func (s *Service) BorrowBook(patronID string, bookID int64) (string, error) {
	if !validPatronID(patronID) {
		return "", &ValidationError{Msg: "Invalid patron ID. Must be exactly 6 digits."}
	}

	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		return "", &StorageError{Msg: "Database error occurred while looking up the book.", Err: err}
	}
	if book == nil {
		return "", &NotFoundError{Msg: "Book not found."}
	}
	if book.AvailableCopies <= 0 {
		return "", &ConflictError{Msg: "This book is currently not available."}
	}

	borrowed, err := s.store.GetPatronBorrowCount(patronID)
	if err != nil {
		return "", &StorageError{Msg: "Database error occurred while checking borrow count.", Err: err}
	}
	if borrowed >= maxBorrowedBooks {
		return "", &ConflictError{Msg: "You have reached the maximum borrowing limit of 5 books."}
	}

	borrowDate := s.now()
	dueDate := borrowDate.AddDate(0, 0, loanPeriodDays)

	if _, err := s.store.InsertBorrowRecord(patronID, bookID, borrowDate, dueDate); err != nil {
		return "", &StorageError{Msg: "Database error occurred while creating borrow record.", Err: err}
	}
	if err := s.store.UpdateBookAvailability(bookID, -1); err != nil {
		return "", &StorageError{Msg: "Database error occurred while updating book availability.", Err: err}
	}

	return fmt.Sprintf("Successfully borrowed %q. Due date: %s.", book.Title, dueDate.Format("2006-01-02")), nil
}

// ReturnBook closes the patron's outstanding loan on the book and restores
// one available copy. The late fee is computed for the confirmation message
// only; nothing is charged here. Same non-atomic two-write posture as
// BorrowBook.
func (s *Service) ReturnBook(patronID string, bookID int64) (string, error) {
	if !validPatronID(patronID) {
		return "", &ValidationError{Msg: "This is an invalid patron ID. Must be exactly 6 digits."}
	}

	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		return "", &StorageError{Msg: "Database error occurred while looking up the book.", Err: err}
	}
	if book == nil {
		return "", &NotFoundError{Msg: "This is an invalid book."}
	}

	borrowed, err := s.store.GetPatronBorrowedBooks(patronID)
	if err != nil {
		return "", &StorageError{Msg: "Database error occurred while loading borrow records.", Err: err}
	}
	hasBorrowed := false
	for _, r := range borrowed {
		if r.BookID == bookID {
			hasBorrowed = true
			break
		}
	}
	if !hasBorrowed {
		return "", &ConflictError{Msg: "Not currently borrowed by this patron."}
	}

	lateFee, err := s.CalculateLateFeeForBook(patronID, bookID)
	if err != nil {
		return "", err
	}
	feeMsg := ""
	if lateFee.DaysOverdue > 0 && lateFee.FeeAmount > 0 {
		feeMsg = fmt.Sprintf(" Late fee: $%.2f for %d days overdue.", lateFee.FeeAmount, lateFee.DaysOverdue)
	}

	if err := s.store.UpdateBorrowRecordReturnDate(patronID, bookID, s.now()); err != nil {
		return "", &StorageError{Msg: "Database error occurred while updating return date.", Err: err}
	}
	if err := s.store.UpdateBookAvailability(bookID, 1); err != nil {
		return "", &StorageError{Msg: "Database error occurred while updating book availability.", Err: err}
	}

	return fmt.Sprintf("Book %q successfully returned.%s", book.Title, feeMsg), nil
}
