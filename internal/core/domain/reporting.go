package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account row in a trial balance report. Exactly
// one of Debit/Credit is nonzero: a balance opposite the account's normal side
// lands in the other column rather than going negative.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Level       int             `json:"level"`
	IsGroup     bool            `json:"isGroup"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // Raw credit - debit
}

// TrialBalanceTotals carries the column sums and the balancedness verdict.
// An imbalance is surfaced, never corrected: it means the books are broken.
type TrialBalanceTotals struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Difference   decimal.Decimal `json:"difference"` // TotalDebits - TotalCredits
	IsBalanced   bool            `json:"isBalanced"`
}

// TrialBalanceReport lists every active account with a nonzero balance over
// the requested period.
type TrialBalanceReport struct {
	CompanyID   string             `json:"companyID"`
	CompanyName string             `json:"companyName"`
	StartDate   *time.Time         `json:"startDate"` // nil = beginning of time
	EndDate     time.Time          `json:"endDate"`
	Accounts    []TrialBalanceRow  `json:"accounts"`
	Totals      TrialBalanceTotals `json:"totals"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// ReportLine is an account with its display-adjusted amount, used by the
// derived reports (balance sheet, income statement).
type ReportLine struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheetReport partitions balances by account type as of a date and
// asserts the accounting equation, with current-period net income folded into
// equity.
type BalanceSheetReport struct {
	CompanyID        string          `json:"companyID"`
	AsOf             time.Time       `json:"asOf"`
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"` // Includes net income
	NetIncome        decimal.Decimal `json:"netIncome"`
	IsBalanced       bool            `json:"isBalanced"` // Assets == Liabilities + Equity within tolerance
}

// IncomeStatementReport nets revenue against expenses over a period.
type IncomeStatementReport struct {
	CompanyID     string          `json:"companyID"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Revenues      []ReportLine    `json:"revenues"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// CashFlowReport is the simplified cash flow view: the period delta across
// cash accounts reconciled against net income.
type CashFlowReport struct {
	CompanyID            string          `json:"companyID"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              time.Time       `json:"endDate"`
	BeginningCashBalance decimal.Decimal `json:"beginningCashBalance"`
	EndingCashBalance    decimal.Decimal `json:"endingCashBalance"`
	NetChangeInCash      decimal.Decimal `json:"netChangeInCash"`
	NetIncome            decimal.Decimal `json:"netIncome"`
	OperatingActivities  decimal.Decimal `json:"operatingActivities"`
	InvestingActivities  decimal.Decimal `json:"investingActivities"`
	FinancingActivities  decimal.Decimal `json:"financingActivities"`
}
