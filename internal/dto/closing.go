package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// CreateClosingRequest opens a new accounting period closing marker.
type CreateClosingRequest struct {
	ClosingDate time.Time `json:"closingDate" binding:"required" time_format:"2006-01-02"`
	PeriodName  string    `json:"periodName" binding:"required,min=1,max=100"`
	Notes       string    `json:"notes" binding:"omitempty,max=1000"`
}

// ClosingResponse is the API representation of an accounting closing.
type ClosingResponse struct {
	ClosingID   string    `json:"closingID"`
	CompanyID   string    `json:"companyID"`
	ClosingDate time.Time `json:"closingDate"`
	PeriodName  string    `json:"periodName"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

// ToClosingResponse maps a domain closing to its API shape.
func ToClosingResponse(c *domain.AccountingClosing) ClosingResponse {
	return ClosingResponse{
		ClosingID:   c.ClosingID,
		CompanyID:   c.CompanyID,
		ClosingDate: c.ClosingDate,
		PeriodName:  c.PeriodName,
		Status:      string(c.Status),
		Notes:       c.Notes,
	}
}

// ToClosingResponses maps a slice of domain closings.
func ToClosingResponses(closings []domain.AccountingClosing) []ClosingResponse {
	out := make([]ClosingResponse, len(closings))
	for i := range closings {
		out[i] = ToClosingResponse(&closings[i])
	}
	return out
}
