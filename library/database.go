package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage is the persistence collaborator consumed by the lending engine,
// catalog manager and reporting code. Lookups return (nil, nil) when the
// entity does not exist; a non-nil error always means the storage operation
// itself failed.
type Storage interface {
	GetBookByID(id int64) (*Book, error)
	GetBookByISBN(isbn string) (*Book, error)
	GetAllBooks() ([]*Book, error)
	InsertBook(title, author, isbn string, totalCopies, availableCopies int) (int64, error)

	// UpdateBookAvailability adjusts available_copies by delta and fails if
	// the adjustment would leave the count negative or above total_copies.
	UpdateBookAvailability(bookID int64, delta int) error

	InsertBorrowRecord(patronID string, bookID int64, borrowDate, dueDate time.Time) (int64, error)
	UpdateBorrowRecordReturnDate(patronID string, bookID int64, returnDate time.Time) error

	// GetPatronBorrowCount counts the patron's outstanding loans.
	GetPatronBorrowCount(patronID string) (int, error)
	// GetPatronBorrowedBooks returns the patron's outstanding borrow records.
	GetPatronBorrowedBooks(patronID string) ([]*BorrowRecord, error)
	// GetPatronBorrowHistory returns every borrow record for the patron,
	// joined with book title/author/isbn, newest borrow date first.
	GetPatronBorrowHistory(patronID string) ([]*BorrowRecord, error)
}

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB

	insertBookStmt   *sql.Stmt
	insertBorrowStmt *sql.Stmt
}

var _ Storage = (*Database)(nil)

// Timestamps are stored as RFC 3339 TEXT so the core never has to sniff
// formats at read time.
const timeLayout = time.RFC3339Nano

// NewDatabase opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.insertBookStmt != nil {
		d.insertBookStmt.Close()
	}
	if d.insertBorrowStmt != nil {
		d.insertBorrowStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            isbn TEXT NOT NULL UNIQUE,
            total_copies INTEGER NOT NULL,
            available_copies INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patron_id TEXT NOT NULL,
            book_id INTEGER NOT NULL REFERENCES books(id),
            borrow_date TEXT NOT NULL,
            due_date TEXT NOT NULL,
            return_date TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_borrow_patron ON borrow_records(patron_id);`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.insertBookStmt, err = d.db.Prepare(
		`INSERT INTO books(title,author,isbn,total_copies,available_copies) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.insertBorrowStmt, err = d.db.Prepare(
		`INSERT INTO borrow_records(patron_id,book_id,borrow_date,due_date) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Book accessors
// ---------------------------------------------------------------------------

const bookColumns = `id,title,author,isbn,total_copies,available_copies`

func scanBook(row *sql.Row) (*Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (d *Database) GetBookByID(id int64) (*Book, error) {
	return scanBook(d.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id=?`, id))
}

func (d *Database) GetBookByISBN(isbn string) (*Book, error) {
	return scanBook(d.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE isbn=?`, isbn))
}

func (d *Database) GetAllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT ` + bookColumns + ` FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

func (d *Database) InsertBook(title, author, isbn string, totalCopies, availableCopies int) (int64, error) {
	res, err := d.insertBookStmt.Exec(title, author, isbn, totalCopies, availableCopies)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateBookAvailability applies delta to available_copies. The WHERE clause
// keeps 0 <= available_copies <= total_copies; a violating delta matches no
// row and is reported as an error.
func (d *Database) UpdateBookAvailability(bookID int64, delta int) error {
	res, err := d.db.Exec(
		`UPDATE books SET available_copies = available_copies + ?
         WHERE id=? AND available_copies + ? BETWEEN 0 AND total_copies`,
		delta, bookID, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("availability update rejected for book %d (delta %d)", bookID, delta)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Borrow-record accessors
// ---------------------------------------------------------------------------

func (d *Database) InsertBorrowRecord(patronID string, bookID int64, borrowDate, dueDate time.Time) (int64, error) {
	if patronID == "" {
		return 0, fmt.Errorf("patron id is required")
	}
	res, err := d.insertBorrowStmt.Exec(patronID, bookID, borrowDate.Format(timeLayout), dueDate.Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateBorrowRecordReturnDate closes the patron's outstanding record for the
// book. At most one such record exists per (patron, book) pair.
func (d *Database) UpdateBorrowRecordReturnDate(patronID string, bookID int64, returnDate time.Time) error {
	if returnDate.IsZero() {
		return fmt.Errorf("return date is required")
	}
	res, err := d.db.Exec(
		`UPDATE borrow_records SET return_date=?
         WHERE patron_id=? AND book_id=? AND return_date IS NULL`,
		returnDate.Format(timeLayout), patronID, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no outstanding borrow record for patron %s on book %d", patronID, bookID)
	}
	return nil
}

func (d *Database) GetPatronBorrowCount(patronID string) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM borrow_records WHERE patron_id=? AND return_date IS NULL`,
		patronID).Scan(&n)
	return n, err
}

func (d *Database) GetPatronBorrowedBooks(patronID string) ([]*BorrowRecord, error) {
	rows, err := d.db.Query(
		`SELECT id,patron_id,book_id,borrow_date,due_date,return_date
         FROM borrow_records WHERE patron_id=? AND return_date IS NULL
         ORDER BY borrow_date`,
		patronID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBorrowRecords(rows, false)
}

func (d *Database) GetPatronBorrowHistory(patronID string) ([]*BorrowRecord, error) {
	rows, err := d.db.Query(
		`SELECT br.id,br.patron_id,br.book_id,br.borrow_date,br.due_date,br.return_date,
                b.title,b.author,b.isbn
         FROM borrow_records br
         JOIN books b ON b.id = br.book_id
         WHERE br.patron_id=?
         ORDER BY br.borrow_date DESC`,
		patronID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBorrowRecords(rows, true)
}

func scanBorrowRecords(rows *sql.Rows, joined bool) ([]*BorrowRecord, error) {
	var records []*BorrowRecord
	for rows.Next() {
		var (
			r         BorrowRecord
			borrowRaw string
			dueRaw    string
			returnRaw sql.NullString
		)
		dest := []any{&r.ID, &r.PatronID, &r.BookID, &borrowRaw, &dueRaw, &returnRaw}
		if joined {
			dest = append(dest, &r.Title, &r.Author, &r.ISBN)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		var err error
		if r.BorrowDate, err = time.Parse(timeLayout, borrowRaw); err != nil {
			return nil, fmt.Errorf("parse borrow date: %w", err)
		}
		if r.DueDate, err = time.Parse(timeLayout, dueRaw); err != nil {
			return nil, fmt.Errorf("parse due date: %w", err)
		}
		if returnRaw.Valid {
			t, err := time.Parse(timeLayout, returnRaw.String)
			if err != nil {
				return nil, fmt.Errorf("parse return date: %w", err)
			}
			r.ReturnDate = &t
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
