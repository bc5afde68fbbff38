package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/validation"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// transactionService manages the upstream transaction intake. Transactions
// carry a signed amount and an optional classification; they only hit the
// books once validated through the journal service.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
	companyRepo portsrepo.CompanyRepository
	now         func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountRepository,
	companyRepo portsrepo.CompanyRepository,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		now:         time.Now,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transaction amount cannot be zero", apperrors.ErrValidation)
	}

	if req.AccountCode != "" {
		if err := s.checkAssignable(ctx, companyID, req.AccountCode); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		CompanyID:         companyID,
		Date:              req.Date,
		Description:       req.Description,
		Amount:            req.Amount,
		AccountCode:       req.AccountCode,
		SuggestedCategory: req.SuggestedCategory,
		ConfidenceScore:   req.ConfidenceScore,
		IsValidated:       false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for company %s: %w", companyID, err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// AssignAccount sets the target account on an unvalidated transaction,
// overriding any upstream suggestion.
func (s *transactionService) AssignAccount(ctx context.Context, companyID, transactionID, accountCode string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.GetTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return err
	}
	if txn.IsValidated {
		return fmt.Errorf("%w: transaction %s is already validated", apperrors.ErrConflict, transactionID)
	}

	if err := s.checkAssignable(ctx, companyID, accountCode); err != nil {
		return err
	}

	if err := s.txnRepo.AssignAccount(ctx, transactionID, accountCode, userID, s.now().UTC()); err != nil {
		logger.Error("Failed to assign account to transaction",
			slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to assign account to transaction %s: %w", transactionID, err)
	}

	logger.Info("Account assigned to transaction",
		slog.String("transaction_id", transactionID),
		slog.String("account_code", accountCode))
	return nil
}

// checkAssignable verifies the account exists, is active and can carry lines.
func (s *transactionService) checkAssignable(ctx context.Context, companyID, accountCode string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, accountCode)
		}
		return fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountCode)
	}
	if account.IsGroup {
		return fmt.Errorf("%w: account %s is a group account", apperrors.ErrValidation, accountCode)
	}
	return nil
}
