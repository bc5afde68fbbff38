package domain

import "time"

// ClosingStatus is the lifecycle of an accounting period closing.
type ClosingStatus string

const (
	ClosingOpen    ClosingStatus = "OPEN"
	ClosingClosed  ClosingStatus = "CLOSED"
	ClosingAudited ClosingStatus = "AUDITED"
)

// AccountingClosing marks the end of an accounting period. Once CLOSED, no
// journal entry dated at or before ClosingDate may be created or modified.
type AccountingClosing struct {
	ClosingID   string        `json:"closingID"` // Primary key (UUID)
	CompanyID   string        `json:"companyID"`
	ClosingDate time.Time     `json:"closingDate"` // Last date of the closed period; never in the future
	PeriodName  string        `json:"periodName"`  // e.g. "Q1 2025", "FY 2024"
	Status      ClosingStatus `json:"status"`
	Notes       string        `json:"notes"`
	AuditFields
}
