package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the atomic unit of double-entry posting: a dated, described
// set of lines whose debits equal their credits. Entries are immutable once
// posted; corrections go through an offsetting reversal entry.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`   // Primary key (UUID)
	CompanyID   string      `json:"companyID"` // FK -> companies
	Date        time.Time   `json:"date"`      // Date the event occurred
	Description string      `json:"description"`
	Reference   string      `json:"reference"` // e.g. "TRX-<id>" for entries expanded from a transaction
	Status      EntryStatus `json:"status"`
	ReversedBy  *string     `json:"reversedBy"` // EntryID of the offsetting entry, set when Status is REVERSED
	Reverses    *string     `json:"reverses"`   // EntryID this entry offsets
	Lines       []JournalLine
	AuditFields
}

// JournalLine debits or credits exactly one non-group account. Exactly one of
// Debit/Credit is strictly positive; the other is zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary key (UUID)
	EntryID     string          `json:"entryID"` // FK -> journal_entries
	CompanyID   string          `json:"companyID"`
	AccountCode string          `json:"accountCode"` // FK -> accounts(code) within the company
	Debit       decimal.Decimal `json:"debit"`       // >= 0
	Credit      decimal.Decimal `json:"credit"`      // >= 0
	Description string          `json:"description"`
	AuditFields
}
