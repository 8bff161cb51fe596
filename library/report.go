package library

// GetPatronStatusReport aggregates a patron's full borrow history into a
// report: outstanding loans with overdue flags, the accumulated late-fee
// total for overdue loans, and the complete history newest first. An invalid
// patron id yields an empty report rather than an error.
//
// The fee total here intentionally uses a flat $0.50 per overdue day with no
// cap, which diverges from the tiered, capped CalculateLateFee schedule.
// Both formulas are load-bearing at their call sites; see DESIGN.md.
func (s *Service) GetPatronStatusReport(patronID string) (PatronReport, error) {
	report := PatronReport{
		CurrentlyBorrowed: []BorrowedBook{},
		History:           []BorrowedBook{},
	}
	if !validPatronID(patronID) {
		return report, nil
	}

	records, err := s.store.GetPatronBorrowHistory(patronID)
	if err != nil {
		return PatronReport{}, &StorageError{Msg: "Database error occurred while loading borrow history.", Err: err}
	}

	now := s.now()
	total := 0.0
	for _, r := range records {
		entry := BorrowedBook{
			Title:      r.Title,
			Author:     r.Author,
			ISBN:       r.ISBN,
			BorrowDate: r.BorrowDate,
			DueDate:    r.DueDate,
			ReturnDate: r.ReturnDate,
		}

		if r.Outstanding() {
			entry.IsOverdue = now.After(r.DueDate)
			report.CurrentlyBorrowed = append(report.CurrentlyBorrowed, entry)
			if entry.IsOverdue {
				daysOverdue := daysBetweenDates(r.DueDate, now)
				total += round2(float64(daysOverdue) * firstWeekFeePerDay)
			}
		}
		report.History = append(report.History, entry)
	}

	report.NumCurrentlyBorrowed = len(report.CurrentlyBorrowed)
	report.TotalLateFees = round2(total)
	return report, nil
}
