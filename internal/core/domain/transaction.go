package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single-sided business event supplied by an upstream
// producer (manual entry or the classification service): a signed amount
// against one target account. Validating a transaction expands it into a
// balanced journal entry.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary key (UUID)
	CompanyID     string          `json:"companyID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`      // Signed: positive = money in
	AccountCode   string          `json:"accountCode"` // Assigned target account; empty until classified

	// Classification metadata from the upstream suggestion service.
	SuggestedCategory string   `json:"suggestedCategory"`
	ConfidenceScore   *float64 `json:"confidenceScore"` // 0-1, nil when manually entered

	IsValidated bool       `json:"isValidated"`
	ValidatedBy string     `json:"validatedBy"`
	ValidatedAt *time.Time `json:"validatedAt"`
	AuditFields
}
