package library

import "github.com/shopspring/decimal"

// Fee policy. Amounts are plain decimal currency units; there is no
// localization, the unit is whatever the operator bills in.
var (
	// DailyRate is charged per whole day past the effective due date.
	DailyRate = decimal.RequireFromString("0.50")

	// LossFee is the flat charge for a lost copy, independent of dates.
	LossFee = decimal.RequireFromString("20.00")
)

// RegisteredDiscount is the percentage discount granted at registration.
const RegisteredDiscount = 10.0

// registeredGraceDays is the grace window granted to registered patrons.
const registeredGraceDays = 5

// LateFee returns the fee for returning a book daysLate whole days past
// the effective due date. Zero or negative daysLate costs nothing.
func LateFee(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return DailyRate.Mul(decimal.NewFromInt(int64(daysLate)))
}

// GraceDays returns the number of days past the due date before late
// fees start accruing: registered patrons get five, everyone else none.
func GraceDays(p *Patron) int {
	if p.Registered {
		return registeredGraceDays
	}
	return 0
}
