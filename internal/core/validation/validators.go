// Package validation holds the temporal and state guards invoked before
// journal entry and snapshot creation. Each guard is a pure precondition
// check over values the caller has already fetched; none performs I/O.
package validation

import (
	"fmt"
	"time"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
)

// TimestampNotInFuture rejects operation timestamps later than now.
func TimestampNotInFuture(timestamp, now time.Time) error {
	if timestamp.After(now) {
		return fmt.Errorf("%w: %s is after %s", apperrors.ErrFutureOperation,
			timestamp.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}

// CompanyNotArchived rejects write operations against an archived company.
func CompanyNotArchived(company domain.Company) error {
	if company.IsArchived {
		return fmt.Errorf("%w: company %s", apperrors.ErrArchivedCompany, company.CompanyID)
	}
	return nil
}

// TimestampAfterLastClosing rejects timestamps at or before the latest CLOSED
// closing's date. lastClosing is nil when the company has no closed period.
func TimestampAfterLastClosing(timestamp time.Time, lastClosing *domain.AccountingClosing) error {
	if lastClosing == nil {
		return nil
	}
	if !timestamp.After(lastClosing.ClosingDate) {
		return fmt.Errorf("%w: cannot post at or before last closing date %s",
			apperrors.ErrRetroactiveOperation, lastClosing.ClosingDate.Format("2006-01-02"))
	}
	return nil
}

// TimestampAfterLastBalance rejects timestamps at or before the account's
// latest balance snapshot. lastSnapshot is nil when the account has no
// snapshot yet.
func TimestampAfterLastBalance(timestamp time.Time, lastSnapshot *domain.BalanceSnapshot) error {
	if lastSnapshot == nil {
		return nil
	}
	if !timestamp.After(lastSnapshot.Timestamp) {
		return fmt.Errorf("%w: cannot post at or before last balance snapshot %s for account %s",
			apperrors.ErrRetroactiveOperation, lastSnapshot.Timestamp.Format(time.RFC3339), lastSnapshot.AccountCode)
	}
	return nil
}
