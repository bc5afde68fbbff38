// Package repositories defines the persistence ports consumed by the core
// services. Implementations live under internal/repositories/database.
package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CompanyRepository persists the tenant records.
type CompanyRepository interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	SetArchived(ctx context.Context, companyID string, archived bool, updatedBy string, updatedAt time.Time) error
}

// AccountRepository persists chart-of-accounts rows.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	// SaveAccounts inserts a batch of accounts atomically (chart seeding).
	SaveAccounts(ctx context.Context, accounts []domain.Account) error
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	// ListAccounts returns accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)
	// FindFirstActiveAsset returns the first active ASSET account ordered by
	// code, optionally restricted to names containing nameSubstring
	// (case-insensitive). Returns apperrors.ErrNotFound when none match.
	FindFirstActiveAsset(ctx context.Context, companyID, nameSubstring string) (*domain.Account, error)
	// UpdateAccount persists the mutable fields only (name, description, is_active).
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// EntryRepository persists journal entries and their lines.
type EntryRepository interface {
	// SaveEntry inserts an entry with all its lines in one transaction;
	// nothing is persisted on failure.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error
	// SaveEntryForTransaction inserts an entry with its lines and marks the
	// originating upstream transaction validated, in the same database
	// transaction. Returns apperrors.ErrConflict (persisting nothing) when the
	// transaction row is already validated.
	SaveEntryForTransaction(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, transactionID, validatedBy string, validatedAt time.Time) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	ListLinesByAccount(ctx context.Context, companyID, accountCode string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
	// MarkReversed flips an entry to REVERSED and links its offsetting entry.
	MarkReversed(ctx context.Context, entryID, reversedByEntryID, updatedBy string, updatedAt time.Time) error
	// SumLines aggregates debit and credit totals for one account over
	// entries dated after `after` (nil = beginning of time) and at or before
	// `until`.
	SumLines(ctx context.Context, companyID, accountCode string, after *time.Time, until time.Time) (debit, credit decimal.Decimal, err error)
	// SumLinesInWindow aggregates totals across several accounts for entries
	// dated within [start, end].
	SumLinesInWindow(ctx context.Context, companyID string, accountCodes []string, start, end time.Time) (debit, credit decimal.Decimal, err error)
	// AccountsWithLines returns the codes of accounts that appear on at least
	// one journal line of the company.
	AccountsWithLines(ctx context.Context, companyID string) ([]string, error)
	// HasLinesAfter reports whether the account has lines on entries dated
	// strictly after the given time.
	HasLinesAfter(ctx context.Context, companyID, accountCode string, after time.Time) (bool, error)
}

// SnapshotRepository persists the append-only balance snapshot cache.
type SnapshotRepository interface {
	// CreateSnapshot inserts a snapshot row. The implementation re-validates
	// monotonicity inside the inserting transaction and returns
	// apperrors.ErrRetroactiveOperation when a snapshot at or after the
	// timestamp already exists; the unique constraint on
	// (company, account, timestamp) is the backstop.
	CreateSnapshot(ctx context.Context, snapshot domain.BalanceSnapshot) error
	// FindLatestAtOrBefore returns the most recent snapshot with
	// timestamp <= asOf, or apperrors.ErrNotFound.
	FindLatestAtOrBefore(ctx context.Context, companyID, accountCode string, asOf time.Time) (*domain.BalanceSnapshot, error)
	// FindLatest returns the most recent snapshot regardless of timestamp,
	// or apperrors.ErrNotFound.
	FindLatest(ctx context.Context, companyID, accountCode string) (*domain.BalanceSnapshot, error)
}

// ClosingRepository persists accounting period closings.
type ClosingRepository interface {
	SaveClosing(ctx context.Context, closing domain.AccountingClosing) error
	FindClosingByID(ctx context.Context, closingID string) (*domain.AccountingClosing, error)
	// FindLatestClosed returns the CLOSED or AUDITED closing with the latest
	// closing date, or apperrors.ErrNotFound.
	FindLatestClosed(ctx context.Context, companyID string) (*domain.AccountingClosing, error)
	UpdateClosingStatus(ctx context.Context, closingID string, status domain.ClosingStatus, updatedBy string, updatedAt time.Time) error
	ListClosings(ctx context.Context, companyID string) ([]domain.AccountingClosing, error)
}

// TransactionRepository persists upstream business transactions.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// Validation is written by EntryRepository.SaveEntryForTransaction so the
	// journal entry and the validated flag commit or roll back together.
	ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	// AssignAccount sets the target account for an unvalidated transaction.
	AssignAccount(ctx context.Context, transactionID, accountCode, updatedBy string, updatedAt time.Time) error
}
