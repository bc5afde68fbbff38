package coa

// SeedAccount is one row of the built-in default chart.
type SeedAccount struct {
	Code string
	Name string
}

// DefaultChart returns the built-in five-level US chart used to seed a new
// company's accounts. Group rows precede their descendants so the seeder can
// insert in order without resolving parents twice.
func DefaultChart() []SeedAccount {
	return []SeedAccount{
		// 1. Assets
		{"1", "Assets"},
		{"1.1", "Current Assets"},
		{"1.1.1", "Cash"},
		{"1.1.1.10", "Bank Checking"},
		{"1.1.1.10.1", "Main Checking Account"},
		{"1.1.1.20", "Bank Savings"},
		{"1.1.1.20.1", "Main Savings Account"},
		{"1.1.1.30", "Petty Cash"},
		{"1.1.1.30.1", "Petty Cash Fund"},
		{"1.1.2", "Accounts Receivable"},
		{"1.1.2.10", "Trade Receivables"},
		{"1.1.2.10.1", "Trade Receivables - Domestic"},
		{"1.1.3", "Inventory"},
		{"1.1.3.10", "Raw Materials"},
		{"1.1.3.10.1", "Raw Materials Inventory"},
		{"1.1.3.30", "Finished Goods"},
		{"1.1.3.30.1", "Finished Goods Inventory"},
		{"1.1.4", "Prepaid Expenses"},
		{"1.1.4.10", "Prepaid Insurance"},
		{"1.1.4.10.1", "Prepaid Insurance Premiums"},
		{"1.2", "Fixed Assets"},
		{"1.2.1", "Property, Plant & Equipment"},
		{"1.2.1.60", "Computers & Equipment"},
		{"1.2.1.60.1", "Office Computers"},
		{"1.2.2", "Accumulated Depreciation"},
		{"1.2.2.60", "Accum. Depr. - Computers"},
		{"1.2.2.60.1", "Accum. Depr. - Office Computers"},

		// 2. Liabilities
		{"2", "Liabilities"},
		{"2.1", "Current Liabilities"},
		{"2.1.1", "Accounts Payable"},
		{"2.1.1.10", "Trade Payables"},
		{"2.1.1.10.1", "Trade Payables - Domestic"},
		{"2.1.2", "Accrued Expenses"},
		{"2.1.2.20", "Accrued Taxes"},
		{"2.1.2.20.1", "Accrued Tax Liabilities"},
		{"2.1.3", "Short-Term Debt"},
		{"2.1.3.10", "Credit Cards"},
		{"2.1.3.10.1", "Company Credit Card"},
		{"2.2", "Long-Term Liabilities"},
		{"2.2.1", "Long-Term Debt"},
		{"2.2.1.10", "Bank Loans"},
		{"2.2.1.10.1", "Term Loan"},

		// 3. Equity
		{"3", "Equity"},
		{"3.1", "Owner's Equity"},
		{"3.1.1", "Capital Stock"},
		{"3.1.1.10", "Common Stock"},
		{"3.1.1.10.1", "Common Stock Issued"},
		{"3.2", "Retained Earnings"},
		{"3.2.1", "Retained Earnings Accounts"},
		{"3.2.1.10", "Current Year Earnings"},
		{"3.2.1.10.1", "Retained Earnings - Current"},

		// 4. Revenue
		{"4", "Revenue"},
		{"4.1", "Operating Revenue"},
		{"4.1.1", "Sales Revenue"},
		{"4.1.1.10", "Product Sales"},
		{"4.1.1.10.1", "Product Sales Revenue"},
		{"4.1.1.20", "Service Revenue"},
		{"4.1.1.20.1", "Service Revenue - General"},
		{"4.9", "Other Revenue"},
		{"4.9.1", "Non-Operating Income"},
		{"4.9.1.10", "Interest Income"},
		{"4.9.1.10.1", "Bank Interest Income"},

		// 5. Expenses
		{"5", "Expenses"},
		{"5.1", "Cost of Goods Sold"},
		{"5.1.1", "Direct Costs"},
		{"5.1.1.10", "Materials"},
		{"5.1.1.10.1", "COGS - Materials"},
		{"5.2", "Operating Expenses"},
		{"5.2.1", "Salaries & Wages"},
		{"5.2.1.20", "Employee Salaries"},
		{"5.2.1.20.1", "Salaries - Staff"},
		{"5.2.4", "Rent"},
		{"5.2.4.10", "Office Rent"},
		{"5.2.4.10.1", "Office Rent Expense"},
		{"5.2.5", "Utilities"},
		{"5.2.5.40", "Internet & Phone"},
		{"5.2.5.40.1", "Internet & Phone Expense"},
		{"5.4", "Financial Expenses"},
		{"5.4.1", "Banking Costs"},
		{"5.4.1.20", "Bank Fees"},
		{"5.4.1.20.1", "Bank Service Charges"},
	}
}
