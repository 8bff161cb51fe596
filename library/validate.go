package library

import "strings"

const (
	maxTitleLen  = 200
	maxAuthorLen = 100
	isbnLen      = 13
	patronIDLen  = 6
	txnIDPrefix  = "txn_"
)

// validPatronID reports whether id is exactly six ASCII digits. Patron ids
// are kept as text to preserve leading zeros.
func validPatronID(id string) bool {
	if len(id) != patronIDLen {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// validISBN checks length only; the catalog stores whatever 13-character
// string it is given.
func validISBN(isbn string) bool {
	return len(isbn) == isbnLen
}

// validTransactionID matches the gateway's txn_-prefixed identifiers.
func validTransactionID(id string) bool {
	return strings.HasPrefix(id, txnIDPrefix) && len(id) > len(txnIDPrefix)
}
