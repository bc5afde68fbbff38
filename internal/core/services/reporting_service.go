package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/internal/utils/accounting"
)

// reportingService builds the derived report views. Reports never mutate
// state; an out-of-balance result is reported as-is so the caller can see the
// books are broken.
type reportingService struct {
	accountRepo portsrepo.AccountRepository
	entryRepo   portsrepo.EntryRepository
	companyRepo portsrepo.CompanyRepository
	balanceSvc  portssvc.BalanceSvcFacade
	now         func() time.Time
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	accountRepo portsrepo.AccountRepository,
	entryRepo portsrepo.EntryRepository,
	companyRepo portsrepo.CompanyRepository,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		companyRepo: companyRepo,
		balanceSvc:  balanceSvc,
		now:         time.Now,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// periodBalance returns the stored (credit - debit) movement of one account
// over the report period. With useSnapshots it differences two incremental
// balance lookups; otherwise it aggregates the journal window directly. Both
// paths agree on the same data.
func (s *reportingService) periodBalance(ctx context.Context, companyID, accountCode string, startDate *time.Time, endDate time.Time, useSnapshots bool) (decimal.Decimal, error) {
	if useSnapshots {
		ending, err := s.balanceSvc.CalculateBalance(ctx, companyID, accountCode, endDate)
		if err != nil {
			return decimal.Zero, err
		}
		if startDate == nil {
			return ending, nil
		}
		opening, err := s.balanceSvc.CalculateBalance(ctx, companyID, accountCode, startDate.Add(-time.Nanosecond))
		if err != nil {
			return decimal.Zero, err
		}
		return ending.Sub(opening), nil
	}

	var after *time.Time
	if startDate != nil {
		cutoff := startDate.Add(-time.Nanosecond)
		after = &cutoff
	}
	debit, credit, err := s.entryRepo.SumLines(ctx, companyID, accountCode, after, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	return credit.Sub(debit), nil
}

// TrialBalance lists every transactional account with activity and a nonzero
// balance over the period, each balance split into its debit or credit column
// by the account's normal side.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, startDate *time.Time, endDate time.Time, useSnapshots bool) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}

	withLines, err := s.entryRepo.AccountsWithLines(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts with lines: %w", err)
	}
	hasLines := make(map[string]bool, len(withLines))
	for _, code := range withLines {
		hasLines[code] = true
	}

	rows := make([]domain.TrialBalanceRow, 0, len(withLines))
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, account := range accounts {
		if account.IsGroup || !hasLines[account.Code] {
			continue
		}

		balance, err := s.periodBalance(ctx, companyID, account.Code, startDate, endDate, useSnapshots)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for account %s: %w", account.Code, err)
		}
		if balance.IsZero() {
			continue
		}

		debit, credit := accounting.SplitColumns(balance, account.NormalBalance)
		rows = append(rows, domain.TrialBalanceRow{
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.Type,
			Level:       account.Level,
			IsGroup:     account.IsGroup,
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
		totalDebits = totalDebits.Add(debit)
		totalCredits = totalCredits.Add(credit)
	}

	difference := totalDebits.Sub(totalCredits)
	report := &domain.TrialBalanceReport{
		CompanyID:   companyID,
		CompanyName: company.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		Accounts:    rows,
		Totals: domain.TrialBalanceTotals{
			TotalDebits:  totalDebits,
			TotalCredits: totalCredits,
			Difference:   difference,
			IsBalanced:   difference.Abs().LessThan(accounting.Tolerance),
		},
		GeneratedAt: s.now().UTC(),
	}

	if !report.Totals.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", difference.String()))
	}
	return report, nil
}

// BalanceSheet partitions balances by account type as of a date. Net income
// since inception is folded into equity so the accounting equation holds
// without a formal period close.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	accounts, err := s.transactionalAccountsWithLines(ctx, companyID)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		CompanyID:        companyID,
		AsOf:             asOf,
		Assets:           []domain.ReportLine{},
		Liabilities:      []domain.ReportLine{},
		Equity:           []domain.ReportLine{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		NetIncome:        decimal.Zero,
	}

	for _, account := range accounts {
		stored, err := s.balanceSvc.CalculateBalance(ctx, companyID, account.Code, asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for account %s: %w", account.Code, err)
		}
		if stored.IsZero() {
			continue
		}

		display := accounting.DisplayBalance(stored, account.NormalBalance)
		line := domain.ReportLine{AccountCode: account.Code, AccountName: account.Name, Amount: display}

		switch account.Type {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(display)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(display)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(display)
		case domain.Revenue, domain.Expense:
			// Stored revenue balances are positive and expenses negative, so
			// the raw sum is revenue minus expenses.
			report.NetIncome = report.NetIncome.Add(stored)
		}
	}

	report.TotalEquity = report.TotalEquity.Add(report.NetIncome)
	report.IsBalanced = report.TotalAssets.
		Sub(report.TotalLiabilities.Add(report.TotalEquity)).
		Abs().
		LessThan(accounting.Tolerance)
	return report, nil
}

// IncomeStatement nets revenues against expenses over [startDate, endDate].
func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, startDate, endDate time.Time) (*domain.IncomeStatementReport, error) {
	accounts, err := s.transactionalAccountsWithLines(ctx, companyID)
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatementReport{
		CompanyID:     companyID,
		StartDate:     startDate,
		EndDate:       endDate,
		Revenues:      []domain.ReportLine{},
		Expenses:      []domain.ReportLine{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, account := range accounts {
		if account.Type != domain.Revenue && account.Type != domain.Expense {
			continue
		}

		movement, err := s.periodBalance(ctx, companyID, account.Code, &startDate, endDate, false)
		if err != nil {
			return nil, fmt.Errorf("failed to compute movement for account %s: %w", account.Code, err)
		}
		if movement.IsZero() {
			continue
		}

		display := accounting.DisplayBalance(movement, account.NormalBalance)
		line := domain.ReportLine{AccountCode: account.Code, AccountName: account.Name, Amount: display}
		if account.Type == domain.Revenue {
			report.Revenues = append(report.Revenues, line)
			report.TotalRevenue = report.TotalRevenue.Add(display)
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpenses = report.TotalExpenses.Add(display)
		}
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// CashFlow reports the period delta across cash accounts. The simplified view
// classifies the whole delta as operating activity; investing and financing
// splits need category metadata the chart does not carry.
func (s *reportingService) CashFlow(ctx context.Context, companyID string, startDate, endDate time.Time) (*domain.CashFlowReport, error) {
	accounts, err := s.transactionalAccountsWithLines(ctx, companyID)
	if err != nil {
		return nil, err
	}

	beginning := decimal.Zero
	ending := decimal.Zero
	openingCutoff := startDate.Add(-time.Nanosecond)

	for _, account := range accounts {
		if account.Type != domain.Asset || !isCashAccount(account.Name) {
			continue
		}

		openingBal, err := s.balanceSvc.CalculateBalance(ctx, companyID, account.Code, openingCutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", account.Code, err)
		}
		closingBal, err := s.balanceSvc.CalculateBalance(ctx, companyID, account.Code, endDate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute closing balance for account %s: %w", account.Code, err)
		}
		beginning = beginning.Add(accounting.DisplayBalance(openingBal, account.NormalBalance))
		ending = ending.Add(accounting.DisplayBalance(closingBal, account.NormalBalance))
	}

	income, err := s.IncomeStatement(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	netChange := ending.Sub(beginning)
	return &domain.CashFlowReport{
		CompanyID:            companyID,
		StartDate:            startDate,
		EndDate:              endDate,
		BeginningCashBalance: beginning,
		EndingCashBalance:    ending,
		NetChangeInCash:      netChange,
		NetIncome:            income.NetIncome,
		OperatingActivities:  netChange,
		InvestingActivities:  decimal.Zero,
		FinancingActivities:  decimal.Zero,
	}, nil
}

// transactionalAccountsWithLines returns the active non-group accounts that
// have at least one journal line, ordered by code.
func (s *reportingService) transactionalAccountsWithLines(ctx context.Context, companyID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}

	withLines, err := s.entryRepo.AccountsWithLines(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts with lines: %w", err)
	}
	hasLines := make(map[string]bool, len(withLines))
	for _, code := range withLines {
		hasLines[code] = true
	}

	filtered := make([]domain.Account, 0, len(withLines))
	for _, account := range accounts {
		if !account.IsGroup && hasLines[account.Code] {
			filtered = append(filtered, account)
		}
	}
	return filtered, nil
}

func isCashAccount(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "cash") || strings.Contains(lower, "bank") || strings.Contains(lower, "checking")
}
