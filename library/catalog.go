package library

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// AddBookToCatalog validates the submitted fields, rejects duplicate ISBNs,
// and persists a new book with every copy available. The returned message
// names the trimmed title.
func (s *Service) AddBookToCatalog(title, author, isbn string, totalCopies int) (string, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	if title == "" {
		return "", &ValidationError{Msg: "Title is required."}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", &ValidationError{Msg: "Title must be less than 200 characters."}
	}
	if author == "" {
		return "", &ValidationError{Msg: "Author is required."}
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "", &ValidationError{Msg: "Author must be less than 100 characters."}
	}
	if !validISBN(isbn) {
		return "", &ValidationError{Msg: "ISBN must be exactly 13 digits."}
	}
	if totalCopies <= 0 {
		return "", &ValidationError{Msg: "Total copies must be a positive integer."}
	}

	existing, err := s.store.GetBookByISBN(isbn)
	if err != nil {
		return "", &StorageError{Msg: "Database error occurred while adding the book.", Err: err}
	}
	if existing != nil {
		return "", &ConflictError{Msg: "A book with this ISBN already exists."}
	}

	if _, err := s.store.InsertBook(title, author, isbn, totalCopies, totalCopies); err != nil {
		return "", &StorageError{Msg: "Database error occurred while adding the book.", Err: err}
	}

	return fmt.Sprintf("Book %q has been successfully added to the catalog.", title), nil
}

// SearchBooksInCatalog searches by title, author or isbn. Title and author
// match case-insensitive substrings; isbn matches exactly. An empty term or
// an unknown search kind yields an empty result rather than an error.
func (s *Service) SearchBooksInCatalog(term, kind string) ([]*Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	books, err := s.store.GetAllBooks()
	if err != nil {
		return nil, &StorageError{Msg: "Database error occurred while searching the catalog.", Err: err}
	}

	var results []*Book
	switch kind {
	case "title":
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title), strings.ToLower(term)) {
				results = append(results, b)
			}
		}
	case "author":
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Author), strings.ToLower(term)) {
				results = append(results, b)
			}
		}
	case "isbn":
		for _, b := range books {
			if b.ISBN == term {
				results = append(results, b)
			}
		}
	}
	return results, nil
}
