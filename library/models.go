package library

import (
	"github.com/shopspring/decimal"
)

// Book represents one title held by a collection together with the number
// of copies currently on the shelf. Copies never goes below zero: lending
// decrements it, a return increments it, a lost copy is simply gone.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Copies int    `json:"copies"`
}

// Collection is a named group of books ("library branch"). Book order is
// insertion order and is preserved across save/load round-trips.
type Collection struct {
	Name  string `json:"name"`
	Books []Book `json:"books"`
}

// Patron represents a person who may borrow books. Registered patrons get
// the fixed discount and a grace window before late fees start accruing.
// Penalty only ever grows in this engine; settling fees is outside its scope.
type Patron struct {
	Name       string          `json:"name"`
	FiscalCode string          `json:"fiscal_code"`
	Phone      string          `json:"phone"`
	Registered bool            `json:"registered"`
	Discount   float64         `json:"discount"`
	Penalty    decimal.Decimal `json:"penalty"`
}

// Loan is an open commitment of one copy of a title to a patron until a
// due date. The ID identifies the record for persistence; lending logic
// matches loans by the (patron, collection, title) triple, so at most one
// open loan per triple is supported by convention.
type Loan struct {
	ID         string `json:"id"`
	FiscalCode string `json:"fiscal_code"`
	Collection string `json:"collection"`
	Title      string `json:"title"`
	LoanedOn   Date   `json:"loaned_on"`
	DueOn      Date   `json:"due_on"`
	Returned   bool   `json:"returned"`
}
