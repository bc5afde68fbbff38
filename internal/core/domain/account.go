package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance naturally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account is a node in a company's chart of accounts. The dot-segmented Code
// is a materialized path: "1.1.2.10.1" sits under "1.1.2.10". Group accounts
// (Level < 5) structure the hierarchy and never carry journal lines.
type Account struct {
	AccountID     string        `json:"accountID"` // Primary key (UUID)
	CompanyID     string        `json:"companyID"` // FK -> companies
	Code          string        `json:"code"`      // Hierarchical code, unique per company
	Name          string        `json:"name"`
	Type          AccountType   `json:"type"`          // Immutable once lines exist
	NormalBalance NormalBalance `json:"normalBalance"` // Derived from Type, never contradicts it
	ParentCode    string        `json:"parentCode"`    // Code with the last segment stripped; empty at level 1
	Level         int           `json:"level"`         // Segment count, 1-5
	IsGroup       bool          `json:"isGroup"`       // Group accounts cannot appear on entry lines
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"` // Soft-deactivate; referenced accounts are never deleted
	AuditFields
}
