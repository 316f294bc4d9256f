package library

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger owns every loan record, open and closed. Loans are never
// deleted: settlement only flips the Returned flag. The ledger reads and
// writes book copy counts and patron penalties as part of settlement;
// those are the only cross-aggregate mutations, and each operation
// applies them together with the loan state change or not at all.
//
// All operations are plain in-memory mutations driven by one caller at a
// time; the ledger does no locking of its own.
type Ledger struct {
	Loans []Loan
}

// Issue lends one copy of title from the collection to the patron.
// It finds the first book with a matching title and at least one copy;
// if there is none it returns ErrNotAvailable with no state change.
// Otherwise it decrements the copy count and records an open loan in the
// same step, so inventory and ledger cannot diverge.
func (l *Ledger) Issue(p *Patron, col *Collection, title string, loanedOn, dueOn Date) (*Loan, error) {
	var book *Book
	for i := range col.Books {
		if col.Books[i].Title == title && col.Books[i].Copies > 0 {
			book = &col.Books[i]
			break
		}
	}
	if book == nil {
		return nil, ErrNotAvailable
	}

	book.Copies--
	l.Loans = append(l.Loans, Loan{
		ID:         uuid.NewString(),
		FiscalCode: p.FiscalCode,
		Collection: col.Name,
		Title:      title,
		LoanedOn:   loanedOn,
		DueOn:      dueOn,
	})
	return &l.Loans[len(l.Loans)-1], nil
}

// SettleReturn closes the first open loan matching (patron, collection,
// title), puts the copy back on the shelf, and charges a late fee when
// the return comes after the due date plus the patron's grace window.
//
// A missing open loan is a silent no-op with matched=false: the caller
// cannot tell "already returned" from "never borrowed here", only that
// nothing changed. The returned fee is the amount added to the patron's
// penalty, zero when the return was in time.
func (l *Ledger) SettleReturn(p *Patron, col *Collection, title string, returnedOn Date) (fee decimal.Decimal, matched bool) {
	loan := l.findOpen(p.FiscalCode, col.Name, title)
	if loan == nil {
		return decimal.Zero, false
	}

	loan.Returned = true

	// Restore the copy. If the book record was removed from the
	// collection in the meantime the count is not restored anywhere.
	if book := col.findBook(title); book != nil {
		book.Copies++
	}

	effectiveDue := loan.DueOn.AddDays(GraceDays(p))
	if returnedOn.After(effectiveDue) {
		fee = LateFee(returnedOn.DaysSince(effectiveDue))
		p.Penalty = p.Penalty.Add(fee)
		return fee, true
	}
	return decimal.Zero, true
}

// SettleLoss closes the first open loan matching the triple and charges
// the flat loss fee. The copy is considered gone: inventory is not
// restored, which is what distinguishes a loss from a return. A missing
// open loan is a silent no-op with matched=false.
func (l *Ledger) SettleLoss(p *Patron, col *Collection, title string) (fee decimal.Decimal, matched bool) {
	loan := l.findOpen(p.FiscalCode, col.Name, title)
	if loan == nil {
		return decimal.Zero, false
	}
	loan.Returned = true
	p.Penalty = p.Penalty.Add(LossFee)
	return LossFee, true
}

// OpenLoans returns a snapshot of the patron's open loans.
func (l *Ledger) OpenLoans(fiscalCode string) []Loan {
	var open []Loan
	for _, loan := range l.Loans {
		if loan.FiscalCode == fiscalCode && !loan.Returned {
			open = append(open, loan)
		}
	}
	return open
}

// findOpen returns the first open loan for the triple, or nil.
func (l *Ledger) findOpen(fiscalCode, collection, title string) *Loan {
	for i := range l.Loans {
		loan := &l.Loans[i]
		if loan.FiscalCode == fiscalCode && loan.Collection == collection && loan.Title == title && !loan.Returned {
			return loan
		}
	}
	return nil
}
