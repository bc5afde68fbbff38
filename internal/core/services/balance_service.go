package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/validation"
	"github.com/finbooks/finbooks/internal/middleware"
)

// balanceService is the snapshot manager. Balances are computed incrementally:
// latest snapshot at or before the cutoff plus the entry delta since it, so
// the journal is never re-aggregated from the beginning of time once a
// checkpoint exists.
type balanceService struct {
	snapshotRepo portsrepo.SnapshotRepository
	entryRepo    portsrepo.EntryRepository
	accountRepo  portsrepo.AccountRepository
	companyRepo  portsrepo.CompanyRepository
	now          func() time.Time
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	snapshotRepo portsrepo.SnapshotRepository,
	entryRepo portsrepo.EntryRepository,
	accountRepo portsrepo.AccountRepository,
	companyRepo portsrepo.CompanyRepository,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		snapshotRepo: snapshotRepo,
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		companyRepo:  companyRepo,
		now:          time.Now,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// CalculateBalance returns the stored (credit - debit) balance of accountCode
// as of asOf. With no snapshot the delta covers everything up to asOf.
func (s *balanceService) CalculateBalance(ctx context.Context, companyID, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByCode(ctx, companyID, accountCode); err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	base := decimal.Zero
	var after *time.Time

	snapshot, err := s.snapshotRepo.FindLatestAtOrBefore(ctx, companyID, accountCode, asOf)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("failed to find snapshot for account %s: %w", accountCode, err)
		}
	} else {
		base = snapshot.Balance
		after = &snapshot.Timestamp
	}

	debit, credit, err := s.entryRepo.SumLines(ctx, companyID, accountCode, after, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountCode, err)
	}

	return base.Add(credit.Sub(debit)), nil
}

// CreateSnapshot checkpoints one account at timestamp. The timestamp must not
// be in the future and must be strictly after the account's latest snapshot;
// the repository re-validates monotonicity inside its transaction so
// concurrent callers cannot interleave a stale checkpoint.
func (s *balanceService) CreateSnapshot(ctx context.Context, companyID, accountCode string, timestamp time.Time, userID string) (*domain.BalanceSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return nil, err
	}
	if err := validation.TimestampNotInFuture(timestamp, s.now()); err != nil {
		return nil, err
	}

	latest, err := s.snapshotRepo.FindLatest(ctx, companyID, accountCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find latest snapshot for account %s: %w", accountCode, err)
	}
	if err := validation.TimestampAfterLastBalance(timestamp, latest); err != nil {
		return nil, err
	}

	balance, err := s.CalculateBalance(ctx, companyID, accountCode, timestamp)
	if err != nil {
		return nil, err
	}

	snapshot := domain.BalanceSnapshot{
		SnapshotID:  uuid.NewString(),
		CompanyID:   companyID,
		AccountCode: accountCode,
		Timestamp:   timestamp,
		Balance:     balance,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.snapshotRepo.CreateSnapshot(ctx, snapshot); err != nil {
		logger.Error("Failed to create balance snapshot",
			slog.String("account_code", accountCode), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create snapshot for account %s: %w", accountCode, err)
	}

	logger.Info("Balance snapshot created",
		slog.String("company_id", companyID),
		slog.String("account_code", accountCode),
		slog.Time("timestamp", timestamp),
		slog.String("balance", balance.String()))
	return &snapshot, nil
}

// SaveBalances checkpoints every active account that has journal activity
// since its last snapshot. Accounts already checkpointed at or after the
// timestamp are skipped rather than failing the batch, which makes the
// operation idempotent for a repeated timestamp.
func (s *balanceService) SaveBalances(ctx context.Context, companyID string, timestamp time.Time, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return 0, err
	}
	if err := validation.TimestampNotInFuture(timestamp, s.now()); err != nil {
		return 0, err
	}

	withLines, err := s.entryRepo.AccountsWithLines(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts with lines: %w", err)
	}

	created := 0
	for _, code := range withLines {
		latest, err := s.snapshotRepo.FindLatest(ctx, companyID, code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return created, fmt.Errorf("failed to find latest snapshot for account %s: %w", code, err)
		}
		if latest != nil {
			if !timestamp.After(latest.Timestamp) {
				continue
			}
			// No new activity since the last checkpoint: a fresh snapshot
			// would only duplicate the stored balance.
			hasNew, err := s.entryRepo.HasLinesAfter(ctx, companyID, code, latest.Timestamp)
			if err != nil {
				return created, fmt.Errorf("failed to check activity for account %s: %w", code, err)
			}
			if !hasNew {
				continue
			}
		}

		if _, err := s.CreateSnapshot(ctx, companyID, code, timestamp, userID); err != nil {
			if errors.Is(err, apperrors.ErrRetroactiveOperation) || errors.Is(err, apperrors.ErrDuplicate) {
				logger.Warn("Skipping account in balance batch",
					slog.String("account_code", code), slog.String("reason", err.Error()))
				continue
			}
			return created, err
		}
		created++
	}

	logger.Info("Balance batch completed",
		slog.String("company_id", companyID),
		slog.Time("timestamp", timestamp),
		slog.Int("snapshots_created", created))
	return created, nil
}

// CreditsDebits aggregates credit and debit totals for the given accounts over
// [startDate, endDate], reading the journal directly without snapshots.
func (s *balanceService) CreditsDebits(ctx context.Context, companyID string, accountCodes []string, startDate, endDate time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if endDate.Before(startDate) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: end date %s is before start date %s",
			apperrors.ErrValidation, endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}
	if len(accountCodes) == 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: at least one account code is required", apperrors.ErrValidation)
	}

	for _, code := range accountCodes {
		if _, err := s.accountRepo.FindAccountByCode(ctx, companyID, code); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to find account %s: %w", code, err)
		}
	}

	debit, credit, err := s.entryRepo.SumLinesInWindow(ctx, companyID, accountCodes, startDate, endDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum window for company %s: %w", companyID, err)
	}
	return credit, debit, nil
}
