package validation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/validation"
)

func TestTimestampNotInFuture(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, validation.TimestampNotInFuture(now.Add(-time.Hour), now))
	assert.NoError(t, validation.TimestampNotInFuture(now, now), "equal to now is not the future")
	assert.ErrorIs(t, validation.TimestampNotInFuture(now.Add(time.Minute), now), apperrors.ErrFutureOperation)
}

func TestCompanyNotArchived(t *testing.T) {
	active := domain.Company{CompanyID: "c1", Name: "Acme LLC"}
	assert.NoError(t, validation.CompanyNotArchived(active))

	archived := active
	archived.IsArchived = true
	assert.ErrorIs(t, validation.CompanyNotArchived(archived), apperrors.ErrArchivedCompany)
}

func TestTimestampAfterLastClosing(t *testing.T) {
	timestamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validation.TimestampAfterLastClosing(timestamp, nil), "no closed period means no boundary")

	closing := &domain.AccountingClosing{
		ClosingID:   "cl1",
		ClosingDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:      domain.ClosingClosed,
	}
	assert.NoError(t, validation.TimestampAfterLastClosing(timestamp, closing))
	assert.ErrorIs(t, validation.TimestampAfterLastClosing(closing.ClosingDate, closing), apperrors.ErrRetroactiveOperation,
		"exactly at the closing date is still inside the closed period")
	assert.ErrorIs(t, validation.TimestampAfterLastClosing(closing.ClosingDate.Add(-24*time.Hour), closing), apperrors.ErrRetroactiveOperation)
}

func TestTimestampAfterLastBalance(t *testing.T) {
	timestamp := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validation.TimestampAfterLastBalance(timestamp, nil), "no snapshot means no boundary")

	snapshot := &domain.BalanceSnapshot{
		SnapshotID:  "s1",
		AccountCode: "1.1.1.10.1",
		Timestamp:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		Balance:     decimal.NewFromInt(-1000),
	}
	assert.NoError(t, validation.TimestampAfterLastBalance(timestamp, snapshot))
	assert.ErrorIs(t, validation.TimestampAfterLastBalance(snapshot.Timestamp, snapshot), apperrors.ErrRetroactiveOperation)
	assert.ErrorIs(t, validation.TimestampAfterLastBalance(snapshot.Timestamp.Add(-time.Hour), snapshot), apperrors.ErrRetroactiveOperation)
}
