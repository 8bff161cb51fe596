package library

import "time"

// Loan policy constants. The fee schedule is tiered: each of the first seven
// overdue days accrues at firstWeekFeePerDay, every day after that at
// lateFeePerDay, and the total is capped at maxLateFee.
const (
	loanPeriodDays     = 14
	maxBorrowedBooks   = 5
	firstWeekFeePerDay = 0.50
	lateFeePerDay      = 1.00
	maxLateFee         = 15.00
	firstWeekDays      = 7
)

// Book represents a catalog entry and its current availability.
// Invariant: 0 <= AvailableCopies <= TotalCopies.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// BorrowRecord is one entry in the permanent lending ledger. ReturnDate is
// nil while the loan is outstanding. Title, Author and ISBN are populated
// only by the joined history query; plain ledger reads leave them empty.
type BorrowRecord struct {
	ID         int64      `json:"id"`
	PatronID   string     `json:"patron_id"`
	BookID     int64      `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`

	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}

// Outstanding reports whether the book has not yet been returned.
func (r *BorrowRecord) Outstanding() bool { return r.ReturnDate == nil }

// LateFeeResult is the derived outcome of a late-fee calculation. It is
// computed on demand and never persisted.
type LateFeeResult struct {
	DaysOverdue int     `json:"days_overdue"`
	FeeAmount   float64 `json:"fee_amount"`
}

// BorrowedBook is a report line joining a borrow record with its book.
type BorrowedBook struct {
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	ISBN       string     `json:"isbn"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	IsOverdue  bool       `json:"is_overdue"`
}

// PatronReport aggregates a patron's full borrowing state.
type PatronReport struct {
	CurrentlyBorrowed    []BorrowedBook `json:"currently_borrowed"`
	NumCurrentlyBorrowed int            `json:"num_currently_borrowed"`
	TotalLateFees        float64        `json:"total_late_fees"`
	History              []BorrowedBook `json:"history"`
}
