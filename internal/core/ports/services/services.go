// Package services defines the service facades consumed by the HTTP handlers.
package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/shopspring/decimal"
)

// CompanySvcFacade manages tenant lifecycle.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	ArchiveCompany(ctx context.Context, companyID string, userID string) error
}

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	SeedDefaultChart(ctx context.Context, companyID string, creatorUserID string) (int, error)
	GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, companyID, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, code string, userID string) error
}

// JournalSvcFacade manages journal entries: double-entry expansion of
// upstream transactions, direct multi-line entries, and reversals.
type JournalSvcFacade interface {
	CreateFromTransaction(ctx context.Context, companyID, transactionID string, userID string) (*domain.JournalEntry, error)
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, companyID, entryID string, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ListLinesByAccount(ctx context.Context, companyID, accountCode string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// TransactionSvcFacade manages the upstream transaction intake.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	AssignAccount(ctx context.Context, companyID, transactionID, accountCode string, userID string) error
}

// BalanceSvcFacade is the balance snapshot manager: incremental balance
// queries and checkpoint creation.
type BalanceSvcFacade interface {
	// CalculateBalance returns the stored (credit - debit) balance of an
	// account as of asOf, combining the latest usable snapshot with the
	// delta of entries since it.
	CalculateBalance(ctx context.Context, companyID, accountCode string, asOf time.Time) (decimal.Decimal, error)
	// CreateSnapshot checkpoints one account at the given timestamp.
	CreateSnapshot(ctx context.Context, companyID, accountCode string, timestamp time.Time, userID string) (*domain.BalanceSnapshot, error)
	// SaveBalances checkpoints every active account with new activity since
	// its last snapshot; returns the number of snapshots created.
	SaveBalances(ctx context.Context, companyID string, timestamp time.Time, userID string) (int, error)
	// CreditsDebits aggregates totals over a bounded date window, bypassing
	// snapshots.
	CreditsDebits(ctx context.Context, companyID string, accountCodes []string, startDate, endDate time.Time) (credits, debits decimal.Decimal, err error)
}

// ReportingSvcFacade produces the derived report views.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyID string, startDate *time.Time, endDate time.Time, useSnapshots bool) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, companyID string, startDate, endDate time.Time) (*domain.IncomeStatementReport, error)
	CashFlow(ctx context.Context, companyID string, startDate, endDate time.Time) (*domain.CashFlowReport, error)
}

// ClosingSvcFacade manages accounting period closings.
type ClosingSvcFacade interface {
	CreateClosing(ctx context.Context, companyID string, req dto.CreateClosingRequest, userID string) (*domain.AccountingClosing, error)
	CloseClosing(ctx context.Context, companyID, closingID string, userID string) (*domain.AccountingClosing, error)
	ListClosings(ctx context.Context, companyID string) ([]domain.AccountingClosing, error)
}
