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
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/internal/utils/accounting"
)

// journalService creates and reads journal entries. All writes run the guard
// layer first and persist atomically: an entry is visible with all its lines
// or not at all.
type journalService struct {
	entryRepo    portsrepo.EntryRepository
	accountRepo  portsrepo.AccountRepository
	companyRepo  portsrepo.CompanyRepository
	snapshotRepo portsrepo.SnapshotRepository
	closingRepo  portsrepo.ClosingRepository
	txnRepo      portsrepo.TransactionRepository
	now          func() time.Time
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	entryRepo portsrepo.EntryRepository,
	accountRepo portsrepo.AccountRepository,
	companyRepo portsrepo.CompanyRepository,
	snapshotRepo portsrepo.SnapshotRepository,
	closingRepo portsrepo.ClosingRepository,
	txnRepo portsrepo.TransactionRepository,
) portssvc.JournalSvcFacade {
	return &journalService{
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		companyRepo:  companyRepo,
		snapshotRepo: snapshotRepo,
		closingRepo:  closingRepo,
		txnRepo:      txnRepo,
		now:          time.Now,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// runEntryGuards applies the temporal and state guards for an entry dated
// entryDate touching accountCodes: archived company, future date, closed
// period, and per-account snapshot boundaries.
func (s *journalService) runEntryGuards(ctx context.Context, companyID string, entryDate time.Time, accountCodes []string) error {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	if err := validation.CompanyNotArchived(*company); err != nil {
		return err
	}
	if err := validation.TimestampNotInFuture(entryDate, s.now()); err != nil {
		return err
	}

	lastClosing, err := s.closingRepo.FindLatestClosed(ctx, companyID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to find latest closing for company %s: %w", companyID, err)
	}
	if err := validation.TimestampAfterLastClosing(entryDate, lastClosing); err != nil {
		return err
	}

	for _, code := range accountCodes {
		lastSnapshot, err := s.snapshotRepo.FindLatest(ctx, companyID, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to find latest snapshot for account %s: %w", code, err)
		}
		if err := validation.TimestampAfterLastBalance(entryDate, lastSnapshot); err != nil {
			return err
		}
	}
	return nil
}

// requirePostableAccount fetches an account and rejects inactive or group
// accounts, which cannot carry journal lines.
func (s *journalService) requirePostableAccount(ctx context.Context, companyID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
	}
	if account.IsGroup {
		return nil, fmt.Errorf("%w: account %s is a group account and cannot carry lines", apperrors.ErrValidation, code)
	}
	return account, nil
}

// resolveContraAccount picks the default offsetting account: the first active
// asset account whose name contains "cash", else the first active asset
// account. This assumes one default cash account per company.
func (s *journalService) resolveContraAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	contra, err := s.accountRepo.FindFirstActiveAsset(ctx, companyID, "cash")
	if err == nil {
		return contra, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve contra account: %w", err)
	}

	contra, err = s.accountRepo.FindFirstActiveAsset(ctx, companyID, "")
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: create a cash or bank asset account first", apperrors.ErrNoContraAccount)
		}
		return nil, fmt.Errorf("failed to resolve contra account: %w", err)
	}
	return contra, nil
}

// CreateFromTransaction expands a single-sided business transaction into a
// balanced two-line entry against the company's contra account and marks the
// transaction validated.
func (s *journalService) CreateFromTransaction(ctx context.Context, companyID, transactionID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if txn.IsValidated {
		return nil, fmt.Errorf("%w: transaction %s is already validated", apperrors.ErrConflict, transactionID)
	}
	if txn.AccountCode == "" {
		return nil, fmt.Errorf("%w: transaction %s has no account assigned", apperrors.ErrValidation, transactionID)
	}
	if txn.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transaction %s has zero amount", apperrors.ErrValidation, transactionID)
	}

	target, err := s.requirePostableAccount(ctx, companyID, txn.AccountCode)
	if err != nil {
		return nil, err
	}

	contra, err := s.resolveContraAccount(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if contra.Code == target.Code {
		return nil, fmt.Errorf("%w: transaction account %s is the contra account itself", apperrors.ErrValidation, target.Code)
	}

	if err := s.runEntryGuards(ctx, companyID, txn.Date, []string{target.Code, contra.Code}); err != nil {
		return nil, err
	}

	// Direction matrix: a positive amount increases the target account on
	// its natural side; a negative amount inverts both legs.
	amount := txn.Amount.Abs()
	targetIncreases := target.Type == domain.Asset || target.Type == domain.Expense
	debitTarget := targetIncreases == (txn.Amount.Sign() > 0)

	now := s.now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		Date:        txn.Date,
		Description: txn.Description,
		Reference:   fmt.Sprintf("TRX-%s", txn.TransactionID),
		Status:      domain.Posted,
		AuditFields: audit,
	}

	lines := []domain.JournalLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			CompanyID:   companyID,
			AccountCode: target.Code,
			AuditFields: audit,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			CompanyID:   companyID,
			AccountCode: contra.Code,
			AuditFields: audit,
		},
	}
	if debitTarget {
		lines[0].Debit, lines[0].Credit = amount, decimal.Zero
		lines[1].Debit, lines[1].Credit = decimal.Zero, amount
	} else {
		lines[0].Debit, lines[0].Credit = decimal.Zero, amount
		lines[1].Debit, lines[1].Credit = amount, decimal.Zero
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}

	// The entry insert and the validated flag commit together: a concurrent
	// validation rolls back the entry, so a retry cannot post a duplicate.
	if err := s.entryRepo.SaveEntryForTransaction(ctx, entry, lines, transactionID, userID, now); err != nil {
		logger.Error("Failed to post entry for transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post journal entry for transaction %s: %w", transactionID, err)
	}

	logger.Info("Journal entry created from transaction",
		slog.String("entry_id", entryID),
		slog.String("transaction_id", transactionID),
		slog.String("target_account", target.Code),
		slog.String("contra_account", contra.Code))

	entry.Lines = lines
	return &entry, nil
}

// CreateEntry posts a multi-line entry. Debits must equal credits across all
// lines within the 0.01 tolerance; otherwise the whole entry is rejected and
// nothing persists.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	codes := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			CompanyID:   companyID,
			AccountCode: lineReq.AccountCode,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
			AuditFields: audit,
		}
		codes = append(codes, lineReq.AccountCode)
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}

	for _, code := range uniqueStrings(codes) {
		if _, err := s.requirePostableAccount(ctx, companyID, code); err != nil {
			return nil, err
		}
	}

	if err := s.runEntryGuards(ctx, companyID, req.Date, uniqueStrings(codes)); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.Posted,
		AuditFields: audit,
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.Int("lines", len(lines)))
	entry.Lines = lines
	return &entry, nil
}

// ReverseEntry creates an offsetting entry with swapped debit/credit legs and
// marks the original REVERSED. Posted entries are never edited in place.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if original.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.Reverses != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that is itself a reversal", apperrors.ErrConflict)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for entry %s: %w", entryID, err)
	}

	codes := make([]string, 0, len(originalLines))
	for _, line := range originalLines {
		codes = append(codes, line.AccountCode)
	}

	// The reversal is dated today, not backdated: backdating it to the
	// original date could land inside a closed period or behind a snapshot.
	now := s.now().UTC()
	reversalDate := now
	if err := s.runEntryGuards(ctx, companyID, reversalDate, uniqueStrings(codes)); err != nil {
		return nil, err
	}

	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	reversal := domain.JournalEntry{
		EntryID:     reversalID,
		CompanyID:   companyID,
		Date:        reversalDate,
		Description: fmt.Sprintf("Reversal of: %s", original.Description),
		Reference:   original.Reference,
		Status:      domain.Posted,
		Reverses:    &original.EntryID,
		AuditFields: audit,
	}

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		reversalLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			CompanyID:   companyID,
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
			AuditFields: audit,
		}
	}

	if err := s.entryRepo.SaveEntry(ctx, reversal, reversalLines); err != nil {
		logger.Error("Failed to save reversal entry", slog.String("original_entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	if err := s.entryRepo.MarkReversed(ctx, original.EntryID, reversalID, userID, now); err != nil {
		logger.Error("Failed to mark original entry reversed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", entryID, err)
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversalID))
	reversal.Lines = reversalLines
	return &reversal, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, nextToken, err := s.entryRepo.ListEntries(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for company %s: %w", companyID, err)
	}

	responses := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		if !params.IncludeReversals && (entries[i].Status == domain.Reversed || entries[i].Reverses != nil) {
			continue
		}
		if params.IncludeLines {
			lines, err := s.entryRepo.FindLinesByEntryID(ctx, entries[i].EntryID)
			if err != nil {
				return nil, fmt.Errorf("failed to find lines for entry %s: %w", entries[i].EntryID, err)
			}
			entries[i].Lines = lines
		}
		responses = append(responses, dto.ToEntryResponse(&entries[i]))
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

func (s *journalService) ListLinesByAccount(ctx context.Context, companyID, accountCode string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	lines, nextToken, err := s.entryRepo.ListLinesByAccount(ctx, companyID, accountCode, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for account %s: %w", accountCode, err)
	}
	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
