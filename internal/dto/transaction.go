package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the upstream intake payload: a signed,
// single-sided business event, optionally pre-classified.
type CreateTransactionRequest struct {
	Date              time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description       string          `json:"description" binding:"required,min=1"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	AccountCode       string          `json:"accountCode" binding:"omitempty,accountcode"`
	SuggestedCategory string          `json:"suggestedCategory" binding:"omitempty,max=100"`
	ConfidenceScore   *float64        `json:"confidenceScore" binding:"omitempty,gte=0,lte=1"`
}

// AssignAccountRequest assigns a target account to an unvalidated transaction.
type AssignAccountRequest struct {
	AccountCode string `json:"accountCode" binding:"required,accountcode"`
}

// ListTransactionsParams are the query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse is the API representation of an upstream transaction.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	CompanyID         string          `json:"companyID"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	AccountCode       string          `json:"accountCode,omitempty"`
	SuggestedCategory string          `json:"suggestedCategory,omitempty"`
	ConfidenceScore   *float64        `json:"confidenceScore,omitempty"`
	IsValidated       bool            `json:"isValidated"`
	ValidatedAt       *time.Time      `json:"validatedAt,omitempty"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		CompanyID:         t.CompanyID,
		Date:              t.Date,
		Description:       t.Description,
		Amount:            t.Amount,
		AccountCode:       t.AccountCode,
		SuggestedCategory: t.SuggestedCategory,
		ConfidenceScore:   t.ConfidenceScore,
		IsValidated:       t.IsValidated,
		ValidatedAt:       t.ValidatedAt,
	}
}

// ToTransactionResponses maps a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
