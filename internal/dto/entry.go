package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one line of a direct multi-line entry. Exactly one of
// debit/credit must be strictly positive; the service enforces the invariant.
type CreateLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required,accountcode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
}

// CreateEntryRequest is the payload for posting a multi-line journal entry.
type CreateEntryRequest struct {
	Date        time.Time           `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string              `json:"description" binding:"required,min=1"`
	Reference   string              `json:"reference" binding:"omitempty,max=100"`
	Lines       []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListEntriesParams are the query parameters for listing entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListLinesParams are the query parameters for listing an account's lines.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LineResponse is the API representation of a journal entry line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID     string         `json:"entryID"`
	CompanyID   string         `json:"companyID"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description"`
	Reference   string         `json:"reference,omitempty"`
	Status      string         `json:"status"`
	ReversedBy  *string        `json:"reversedBy,omitempty"`
	Reverses    *string        `json:"reverses,omitempty"`
	Lines       []LineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse is a page of entries with the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesResponse is a page of lines with the cursor for the next page.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse maps a domain line to its API shape.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		AccountCode: l.AccountCode,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToLineResponses maps a slice of domain lines.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i := range lines {
		out[i] = ToLineResponse(&lines[i])
	}
	return out
}

// ToEntryResponse maps a domain entry (with any loaded lines) to its API shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:     e.EntryID,
		CompanyID:   e.CompanyID,
		Date:        e.Date,
		Description: e.Description,
		Reference:   e.Reference,
		Status:      string(e.Status),
		ReversedBy:  e.ReversedBy,
		Reverses:    e.Reverses,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToLineResponses(e.Lines)
	}
	return resp
}
