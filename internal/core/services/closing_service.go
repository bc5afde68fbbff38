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

// closingService manages accounting period closings. A CLOSED closing freezes
// every journal date at or before its closing date.
type closingService struct {
	closingRepo portsrepo.ClosingRepository
	companyRepo portsrepo.CompanyRepository
	now         func() time.Time
}

// NewClosingService creates a new ClosingService.
func NewClosingService(closingRepo portsrepo.ClosingRepository, companyRepo portsrepo.CompanyRepository) portssvc.ClosingSvcFacade {
	return &closingService{
		closingRepo: closingRepo,
		companyRepo: companyRepo,
		now:         time.Now,
	}
}

var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

func (s *closingService) CreateClosing(ctx context.Context, companyID string, req dto.CreateClosingRequest, userID string) (*domain.AccountingClosing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return nil, err
	}
	if err := validation.TimestampNotInFuture(req.ClosingDate, s.now()); err != nil {
		return nil, err
	}

	// A new period must end after the last closed one.
	lastClosed, err := s.closingRepo.FindLatestClosed(ctx, companyID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find latest closing for company %s: %w", companyID, err)
	}
	if lastClosed != nil && !req.ClosingDate.After(lastClosed.ClosingDate) {
		return nil, fmt.Errorf("%w: closing date %s is at or before last closed period %s",
			apperrors.ErrRetroactiveOperation,
			req.ClosingDate.Format("2006-01-02"),
			lastClosed.ClosingDate.Format("2006-01-02"))
	}

	now := s.now().UTC()
	closing := domain.AccountingClosing{
		ClosingID:   uuid.NewString(),
		CompanyID:   companyID,
		ClosingDate: req.ClosingDate,
		PeriodName:  req.PeriodName,
		Status:      domain.ClosingOpen,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.closingRepo.SaveClosing(ctx, closing); err != nil {
		logger.Error("Failed to save closing", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save closing: %w", err)
	}

	logger.Info("Accounting closing created",
		slog.String("closing_id", closing.ClosingID),
		slog.String("period", closing.PeriodName))
	return &closing, nil
}

// CloseClosing transitions an OPEN closing to CLOSED, activating the
// retroactive-entry guard for its period.
func (s *closingService) CloseClosing(ctx context.Context, companyID, closingID string, userID string) (*domain.AccountingClosing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	closing, err := s.closingRepo.FindClosingByID(ctx, closingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find closing %s: %w", closingID, err)
	}
	if closing.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if closing.Status != domain.ClosingOpen {
		return nil, fmt.Errorf("%w: closing status is %s, expected OPEN", apperrors.ErrConflict, closing.Status)
	}

	now := s.now().UTC()
	if err := s.closingRepo.UpdateClosingStatus(ctx, closingID, domain.ClosingClosed, userID, now); err != nil {
		logger.Error("Failed to close period", slog.String("closing_id", closingID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to close period %s: %w", closingID, err)
	}

	closing.Status = domain.ClosingClosed
	closing.LastUpdatedAt = now
	closing.LastUpdatedBy = userID

	logger.Info("Accounting period closed",
		slog.String("closing_id", closingID),
		slog.String("period", closing.PeriodName))
	return closing, nil
}

func (s *closingService) ListClosings(ctx context.Context, companyID string) ([]domain.AccountingClosing, error) {
	closings, err := s.closingRepo.ListClosings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list closings for company %s: %w", companyID, err)
	}
	return closings, nil
}
