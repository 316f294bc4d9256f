package library

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// fiscalCodePattern is the 16-character Italian fiscal code shape:
// 6 letters, 2 digits, 1 letter, 2 digits, 1 letter, 3 digits, 1 letter.
var fiscalCodePattern = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)

// Registry owns the patron records, keyed by fiscal code.
type Registry struct {
	Patrons []Patron
}

// NormalizeFiscalCode uppercases a code for validation and matching.
// Input is accepted case-insensitively but stored uppercase.
func NormalizeFiscalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidFiscalCode reports whether code matches the fiscal code pattern.
// Matching is case-sensitive: normalize first.
func ValidFiscalCode(code string) bool {
	return len(code) == 16 && fiscalCodePattern.MatchString(code)
}

// Find returns a pointer to the patron with the given fiscal code, or
// ErrPatronNotFound.
func (r *Registry) Find(fiscalCode string) (*Patron, error) {
	for i := range r.Patrons {
		if r.Patrons[i].FiscalCode == fiscalCode {
			return &r.Patrons[i], nil
		}
	}
	return nil, ErrPatronNotFound
}

// Register normalizes and validates the fiscal code, then appends the
// patron as registered with the fixed discount and a zero penalty.
func (r *Registry) Register(name, fiscalCode, phone string) (*Patron, error) {
	code := NormalizeFiscalCode(fiscalCode)
	if !ValidFiscalCode(code) {
		return nil, ErrInvalidFiscalCode
	}
	r.Patrons = append(r.Patrons, Patron{
		Name:       name,
		FiscalCode: code,
		Phone:      phone,
		Registered: true,
		Discount:   RegisteredDiscount,
		Penalty:    decimal.Zero,
	})
	return &r.Patrons[len(r.Patrons)-1], nil
}
