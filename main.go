package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"library-management/library"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultDBFile = "library.db"

// dbPath resolves the database location: --db flag, then LIBRARY_DB from the
// environment (optionally loaded from .env), then the default.
func dbPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	_ = godotenv.Load() // .env is optional
	if p := os.Getenv("LIBRARY_DB"); p != "" {
		return p
	}
	return defaultDBFile
}

func openService(flagValue string) (*library.Service, func() error, error) {
	db, err := library.NewDatabase(dbPath(flagValue))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return library.NewService(db), db.Close, nil
}

func main() {
	var dbFlag string

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library lending and late-fee management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbFlag, "db", "", "path to the SQLite database (default $LIBRARY_DB or library.db)")

	root.AddCommand(
		addBookCmd(&dbFlag),
		searchCmd(&dbFlag),
		borrowCmd(&dbFlag),
		returnCmd(&dbFlag),
		feesCmd(&dbFlag),
		statusCmd(&dbFlag),
		payFeesCmd(&dbFlag),
		refundCmd(&dbFlag),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func addBookCmd(dbFlag *string) *cobra.Command {
	var copies int
	cmd := &cobra.Command{
		Use:   "add-book <title> <author> <isbn>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			msg, err := svc.AddBookToCatalog(args[0], args[1], args[2], copies)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")
	return cmd
}

func searchCmd(dbFlag *string) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the catalog by title, author or isbn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			books, err := svc.SearchBooksInCatalog(args[0], kind)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Printf("No books found matching '%s'.\n", args[0])
				return nil
			}
			fmt.Printf("%-5s %-30s %-25s %-15s %s\n", "ID", "Title", "Author", "ISBN", "Available")
			fmt.Println(strings.Repeat("-", 90))
			for _, b := range books {
				fmt.Printf("%-5d %-30s %-25s %-15s %d/%d\n",
					b.ID, truncateString(b.Title, 30), truncateString(b.Author, 25),
					b.ISBN, b.AvailableCopies, b.TotalCopies)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "by", "title", "search kind: title, author or isbn")
	return cmd
}

func borrowCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <patron-id> <book-id>",
		Short: "Borrow a book for a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			msg, err := svc.BorrowBook(args[0], bookID)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func returnCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "return <patron-id> <book-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			msg, err := svc.ReturnBook(args[0], bookID)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func feesCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fees <patron-id> <book-id>",
		Short: "Show the current late fee for a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			fee, err := svc.CalculateLateFeeForBook(args[0], bookID)
			if err != nil {
				return err
			}
			if fee.DaysOverdue == 0 {
				fmt.Println("No late fees owed.")
				return nil
			}
			fmt.Printf("$%.2f owed (%d days overdue).\n", fee.FeeAmount, fee.DaysOverdue)
			return nil
		},
	}
}

func statusCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <patron-id>",
		Short: "Show a patron's borrowed books, fees and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			report, err := svc.GetPatronStatusReport(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Currently borrowed: %d\n", report.NumCurrentlyBorrowed)
			for _, b := range report.CurrentlyBorrowed {
				overdue := ""
				if b.IsOverdue {
					overdue = " (OVERDUE)"
				}
				fmt.Printf("  %-30s due %s%s\n", truncateString(b.Title, 30), b.DueDate.Format("2006-01-02"), overdue)
			}
			fmt.Printf("Total late fees: $%.2f\n", report.TotalLateFees)

			fmt.Printf("History (%d records):\n", len(report.History))
			for _, b := range report.History {
				returned := "outstanding"
				if b.ReturnDate != nil {
					returned = "returned " + b.ReturnDate.Format("2006-01-02")
				}
				fmt.Printf("  %-30s borrowed %s, %s\n",
					truncateString(b.Title, 30), b.BorrowDate.Format("2006-01-02"), returned)
			}
			return nil
		},
	}
}

func payFeesCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pay-fees <patron-id> <book-id>",
		Short: "Pay the late fee owed on a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			msg, _, err := svc.PayLateFees(args[0], bookID, nil)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func refundCmd(dbFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refund <transaction-id> <amount>",
		Short: "Refund a late-fee payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %s", args[1])
			}
			svc, closeDB, err := openService(*dbFlag)
			if err != nil {
				return err
			}
			defer closeDB()

			msg, err := svc.RefundLateFeePayment(args[0], amount, nil)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func parseBookID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", s)
	}
	return id, nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
