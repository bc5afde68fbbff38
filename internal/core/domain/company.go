package domain

// Company is the tenant boundary: accounts, entries, snapshots and closings
// all belong to exactly one company.
type Company struct {
	CompanyID  string `json:"companyID"` // Primary key (UUID)
	Name       string `json:"name"`
	TaxID      string `json:"taxID"`      // Nullable
	IsArchived bool   `json:"isArchived"` // Archived companies reject all write operations
	AuditFields
}
