package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/coa"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/validation"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// accountService manages the chart of accounts for a company.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	companyRepo portsrepo.CompanyRepository
	now         func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository, companyRepo portsrepo.CompanyRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		now:         time.Now,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// checkCompanyWritable fetches the company and rejects archived tenants.
func (s *accountService) checkCompanyWritable(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return nil, err
	}
	return company, nil
}

// buildAccount derives the hierarchy metadata (level, parent, group flag,
// normal balance) from the code and requested type.
func (s *accountService) buildAccount(companyID string, req dto.CreateAccountRequest, userID string, now time.Time) (domain.Account, error) {
	accountType := domain.AccountType(req.Type)
	if accountType == "" {
		accountType = coa.TypeForCode(req.Code)
	}
	if accountType == "" {
		return domain.Account{}, fmt.Errorf("%w: cannot derive account type from code %q", apperrors.ErrValidation, req.Code)
	}
	if derived := coa.TypeForCode(req.Code); derived != "" && derived != accountType {
		return domain.Account{}, fmt.Errorf("%w: account type %s contradicts code %q (expected %s)",
			apperrors.ErrValidation, accountType, req.Code, derived)
	}

	level := coa.Level(req.Code)
	if level < 1 || level > coa.TransactionalLevel {
		return domain.Account{}, fmt.Errorf("%w: code %q has invalid hierarchy level %d", apperrors.ErrValidation, req.Code, level)
	}

	return domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		Code:          req.Code,
		Name:          req.Name,
		Type:          accountType,
		NormalBalance: coa.NormalBalanceFor(accountType),
		ParentCode:    coa.ParentCode(req.Code),
		Level:         level,
		IsGroup:       coa.IsGroupCode(req.Code),
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.checkCompanyWritable(ctx, companyID); err != nil {
		return nil, err
	}

	account, err := s.buildAccount(companyID, req, creatorUserID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	// A parent, when present, must agree on type: the hierarchy is
	// homogeneous per top-level group.
	if account.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, companyID, account.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %q does not exist", apperrors.ErrValidation, account.ParentCode)
			}
			return nil, fmt.Errorf("failed to find parent account %q: %w", account.ParentCode, err)
		}
		if parent.Type != account.Type {
			return nil, fmt.Errorf("%w: parent account %q has type %s, child has %s",
				apperrors.ErrValidation, parent.Code, parent.Type, account.Type)
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("company_id", companyID), slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account %s: %w", req.Code, err)
	}

	logger.Info("Account created", slog.String("company_id", companyID), slog.String("code", account.Code))
	return &account, nil
}

// SeedDefaultChart inserts the built-in five-level chart for a company that
// has no accounts yet. Returns the number of accounts created.
func (s *accountService) SeedDefaultChart(ctx context.Context, companyID string, creatorUserID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.checkCompanyWritable(ctx, companyID); err != nil {
		return 0, err
	}

	existing, err := s.accountRepo.ListAccounts(ctx, companyID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("%w: company %s already has a chart of accounts", apperrors.ErrConflict, companyID)
	}

	now := s.now().UTC()
	seeds := coa.DefaultChart()
	accounts := make([]domain.Account, 0, len(seeds))
	for _, seed := range seeds {
		account, err := s.buildAccount(companyID, dto.CreateAccountRequest{Code: seed.Code, Name: seed.Name}, creatorUserID, now)
		if err != nil {
			return 0, fmt.Errorf("invalid seed account %q: %w", seed.Code, err)
		}
		accounts = append(accounts, account)
	}

	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		logger.Error("Failed to seed default chart", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to seed default chart for company %s: %w", companyID, err)
	}

	logger.Info("Default chart seeded", slog.String("company_id", companyID), slog.Int("accounts", len(accounts)))
	return len(accounts), nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.checkCompanyWritable(ctx, companyID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = s.now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("code", code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update account %s: %w", code, err)
	}

	return account, nil
}

// DeactivateAccount soft-deactivates an account. Accounts referenced by
// journal lines are never hard-deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID, code string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, companyID, code, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	return err
}
