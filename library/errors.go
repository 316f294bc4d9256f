package library

import "errors"

// Sentinel errors returned by catalog, registry and ledger operations.
// All of them are recoverable by the caller: present the condition and
// retry with corrected input.
var (
	// ErrNotAvailable means the title is not in the collection or has no
	// copies left on the shelf.
	ErrNotAvailable = errors.New("book not available")

	// ErrCollectionNotFound means the named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrPatronNotFound means no patron has the given fiscal code.
	ErrPatronNotFound = errors.New("patron not found")

	// ErrInvalidFiscalCode means the code does not match the 16-character
	// fiscal code pattern. Rejected at registration time.
	ErrInvalidFiscalCode = errors.New("invalid fiscal code")
)
