package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is a materialized cumulative balance for one account at one
// point in time. Snapshots are append-only and advance monotonically per
// (company, account): a new snapshot must be strictly after every existing one.
//
// Balance is stored uniformly as credit minus debit, regardless of the
// account's normal balance. Presentation-side sign adjustment lives in
// accounting.DisplayBalance.
type BalanceSnapshot struct {
	SnapshotID  string          `json:"snapshotID"` // Primary key (UUID)
	CompanyID   string          `json:"companyID"`
	AccountCode string          `json:"accountCode"`
	Timestamp   time.Time       `json:"timestamp"` // Never in the future
	Balance     decimal.Decimal `json:"balance"`   // credit - debit as of Timestamp
	CreatedAt   time.Time       `json:"createdAt"`
}
