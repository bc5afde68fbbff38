package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSnapshotRequest checkpoints one account at a timestamp.
type CreateSnapshotRequest struct {
	AccountCode string    `json:"accountCode" binding:"required,accountcode"`
	Timestamp   time.Time `json:"timestamp" binding:"required"`
}

// SaveBalancesRequest checkpoints every active account with new activity.
type SaveBalancesRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

// BalanceQueryParams are the query parameters for a balance lookup.
type BalanceQueryParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SnapshotResponse is the API representation of a balance snapshot.
type SnapshotResponse struct {
	SnapshotID  string          `json:"snapshotID"`
	CompanyID   string          `json:"companyID"`
	AccountCode string          `json:"accountCode"`
	Timestamp   time.Time       `json:"timestamp"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceResponse reports both the stored balance (credit - debit) and the
// display balance adjusted to the account's normal side.
type BalanceResponse struct {
	CompanyID      string          `json:"companyID"`
	AccountCode    string          `json:"accountCode"`
	AsOf           time.Time       `json:"asOf"`
	Balance        decimal.Decimal `json:"balance"`
	DisplayBalance decimal.Decimal `json:"displayBalance"`
	NormalBalance  string          `json:"normalBalance"`
}

// SaveBalancesResponse reports how many snapshots a batch checkpoint created.
type SaveBalancesResponse struct {
	SnapshotsCreated int       `json:"snapshotsCreated"`
	Timestamp        time.Time `json:"timestamp"`
}

// ToSnapshotResponse maps a domain snapshot to its API shape.
func ToSnapshotResponse(s *domain.BalanceSnapshot) SnapshotResponse {
	return SnapshotResponse{
		SnapshotID:  s.SnapshotID,
		CompanyID:   s.CompanyID,
		AccountCode: s.AccountCode,
		Timestamp:   s.Timestamp,
		Balance:     s.Balance,
	}
}
