package library

import "time"

// CalculateLateFee computes the overdue day count and fee for a borrow
// record as of now. It is a pure function of (due date, now): whole calendar
// days only, the first seven overdue days at $0.50, every later day at
// $1.00, capped at $15.00 and rounded to cents.
func CalculateLateFee(record *BorrowRecord, now time.Time) LateFeeResult {
	daysOverdue := daysBetweenDates(record.DueDate, now)
	if daysOverdue <= 0 {
		return LateFeeResult{}
	}

	var fee float64
	if daysOverdue <= firstWeekDays {
		fee = float64(daysOverdue) * firstWeekFeePerDay
	} else {
		fee = firstWeekDays*firstWeekFeePerDay + float64(daysOverdue-firstWeekDays)*lateFeePerDay
	}
	if fee > maxLateFee {
		fee = maxLateFee
	}

	return LateFeeResult{DaysOverdue: daysOverdue, FeeAmount: round2(fee)}
}

// CalculateLateFeeForBook looks up the patron's outstanding record for the
// book and computes its late fee. It fails soft: an invalid patron id, a
// missing book, or no matching record all yield the zero result with no
// error. Only a failing storage read surfaces as an error.
func (s *Service) CalculateLateFeeForBook(patronID string, bookID int64) (LateFeeResult, error) {
	if !validPatronID(patronID) {
		return LateFeeResult{}, nil
	}

	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		return LateFeeResult{}, &StorageError{Msg: "Database error occurred while looking up the book.", Err: err}
	}
	if book == nil {
		return LateFeeResult{}, nil
	}

	borrowed, err := s.store.GetPatronBorrowedBooks(patronID)
	if err != nil {
		return LateFeeResult{}, &StorageError{Msg: "Database error occurred while loading borrow records.", Err: err}
	}
	for _, r := range borrowed {
		if r.BookID == bookID {
			return CalculateLateFee(r, s.now()), nil
		}
	}
	return LateFeeResult{}, nil
}

// daysBetweenDates returns the number of whole calendar days from the date
// component of from to the date component of to. Time of day is ignored, so
// a loan due at 23:59 is one day overdue at 00:01 the next day.
func daysBetweenDates(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
