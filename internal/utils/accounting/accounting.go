// Package accounting centralizes the arithmetic conventions of the ledger:
// the stored balance sign, the display-side adjustment, and the rounding
// tolerance. Report code must not re-derive any of these.
package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum acceptable rounding drift between debit and credit
// totals: 0.01 currency units.
var Tolerance = decimal.New(1, -2)

// WithinTolerance reports whether two amounts differ by less than Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// DisplayBalance converts a stored balance (credit minus debit) into the sign
// users expect for the account's normal side. A debit-normal account that has
// accumulated debits holds a negative stored balance; its display balance is
// positive.
func DisplayBalance(stored decimal.Decimal, normalBalance domain.NormalBalance) decimal.Decimal {
	if normalBalance == domain.DebitNormal {
		return stored.Neg()
	}
	return stored
}

// SplitColumns places a stored balance into trial-balance debit/credit
// columns. A balance on the account's normal side lands in that column; a
// balance on the opposite side lands in the other column as a positive
// amount, never as a negative number.
func SplitColumns(stored decimal.Decimal, normalBalance domain.NormalBalance) (debit, credit decimal.Decimal) {
	display := DisplayBalance(stored, normalBalance)
	if normalBalance == domain.DebitNormal {
		if display.Sign() >= 0 {
			return display, decimal.Zero
		}
		return decimal.Zero, display.Abs()
	}
	if display.Sign() >= 0 {
		return decimal.Zero, display
	}
	return display.Abs(), decimal.Zero
}

// ValidateLine checks the single-line invariant: exactly one of debit/credit
// strictly positive, the other exactly zero, both non-negative.
func ValidateLine(line domain.JournalLine) error {
	if line.Debit.Sign() < 0 || line.Credit.Sign() < 0 {
		return fmt.Errorf("%w: line amounts must be non-negative for account %s", apperrors.ErrValidation, line.AccountCode)
	}
	debitSet := line.Debit.Sign() > 0
	creditSet := line.Credit.Sign() > 0
	if debitSet == creditSet {
		return fmt.Errorf("%w: line for account %s must set exactly one of debit or credit", apperrors.ErrValidation, line.AccountCode)
	}
	return nil
}

// ValidateEntryBalance checks the double-entry invariant across all lines of
// an entry: sum of debits equals sum of credits within Tolerance. The error
// carries the computed imbalance.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !WithinTolerance(totalDebit, totalCredit) {
		return fmt.Errorf("%w: debits %s do not equal credits %s (imbalance %s)",
			apperrors.ErrInconsistentData, totalDebit.String(), totalCredit.String(), totalDebit.Sub(totalCredit).String())
	}
	return nil
}
