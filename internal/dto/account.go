package dto

import (
	"github.com/finbooks/finbooks/internal/core/domain"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts row.
// Type may be omitted: it is then derived from the code's first segment.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,max=20,accountcode"`
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Type        string `json:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// UpdateAccountRequest carries the mutable account fields. Nil means "leave
// unchanged"; code and type are immutable.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	CompanyID     string `json:"companyID"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	NormalBalance string `json:"normalBalance"`
	ParentCode    string `json:"parentCode,omitempty"`
	Level         int    `json:"level"`
	IsGroup       bool   `json:"isGroup"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// ToAccountResponse maps a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		Code:          a.Code,
		Name:          a.Name,
		Type:          string(a.Type),
		NormalBalance: string(a.NormalBalance),
		ParentCode:    a.ParentCode,
		Level:         a.Level,
		IsGroup:       a.IsGroup,
		Description:   a.Description,
		IsActive:      a.IsActive,
	}
}

// ToAccountResponses maps a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
