package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo    *MockEntryRepository
	mockAccountRepo  *MockAccountRepository
	mockCompanyRepo  *MockCompanyRepository
	mockSnapshotRepo *MockSnapshotRepository
	mockClosingRepo  *MockClosingRepository
	mockTxnRepo      *MockTransactionRepository
	service          portssvc.JournalSvcFacade

	companyID      string
	userID         string
	company        domain.Company
	cashAccount    domain.Account
	revenueAccount domain.Account
	expenseAccount domain.Account
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockEntryRepo = new(MockEntryRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockCompanyRepo = new(MockCompanyRepository)
	s.mockSnapshotRepo = new(MockSnapshotRepository)
	s.mockClosingRepo = new(MockClosingRepository)
	s.mockTxnRepo = new(MockTransactionRepository)
	s.service = services.NewJournalService(
		s.mockEntryRepo,
		s.mockAccountRepo,
		s.mockCompanyRepo,
		s.mockSnapshotRepo,
		s.mockClosingRepo,
		s.mockTxnRepo,
	)

	s.companyID = uuid.NewString()
	s.userID = uuid.NewString()
	s.company = domain.Company{CompanyID: s.companyID, Name: "Acme LLC"}

	s.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     s.companyID,
		Code:          "1.1.1.10.1",
		Name:          "Main Checking Account",
		Type:          domain.Asset,
		NormalBalance: domain.DebitNormal,
		Level:         5,
		IsActive:      true,
	}
	s.revenueAccount = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     s.companyID,
		Code:          "4.1.1.20.1",
		Name:          "Service Revenue",
		Type:          domain.Revenue,
		NormalBalance: domain.CreditNormal,
		Level:         5,
		IsActive:      true,
	}
	s.expenseAccount = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     s.companyID,
		Code:          "5.1.1.10.1",
		Name:          "Office Supplies",
		Type:          domain.Expense,
		NormalBalance: domain.DebitNormal,
		Level:         5,
		IsActive:      true,
	}
}

// expectOpenGuards stubs the guard lookups for a company with no closed
// period and no snapshots on the given accounts.
func (s *JournalServiceTestSuite) expectOpenGuards(codes ...string) {
	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockClosingRepo.On("FindLatestClosed", mock.Anything, s.companyID).Return(nil, apperrors.ErrNotFound)
	for _, code := range codes {
		s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, code).Return(nil, apperrors.ErrNotFound)
	}
}

func (s *JournalServiceTestSuite) TestCreateFromTransactionCreditsRevenueDebitsCash() {
	txnID := uuid.NewString()
	txnDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := domain.Transaction{
		TransactionID: txnID,
		CompanyID:     s.companyID,
		Date:          txnDate,
		Description:   "Client payment",
		Amount:        decimal.NewFromInt(1000),
		AccountCode:   s.revenueAccount.Code,
	}

	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(&txn, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "cash").Return(nil, apperrors.ErrNotFound)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "").Return(&s.cashAccount, nil)
	s.expectOpenGuards(s.revenueAccount.Code, s.cashAccount.Code)

	var savedLines []domain.JournalLine
	s.mockEntryRepo.On("SaveEntryForTransaction",
		mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, txnID, s.userID, mock.Anything).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil)

	entry, err := s.service.CreateFromTransaction(context.Background(), s.companyID, txnID, s.userID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), entry)
	assert.Equal(s.T(), domain.Posted, entry.Status)
	assert.Equal(s.T(), txnDate, entry.Date)

	require.Len(s.T(), savedLines, 2)
	byCode := map[string]domain.JournalLine{}
	for _, line := range savedLines {
		byCode[line.AccountCode] = line
	}
	// A positive inflow credits the revenue account on its natural side and
	// debits cash.
	assert.True(s.T(), byCode[s.revenueAccount.Code].Credit.Equal(decimal.NewFromInt(1000)))
	assert.True(s.T(), byCode[s.revenueAccount.Code].Debit.IsZero())
	assert.True(s.T(), byCode[s.cashAccount.Code].Debit.Equal(decimal.NewFromInt(1000)))
	assert.True(s.T(), byCode[s.cashAccount.Code].Credit.IsZero())

	s.mockEntryRepo.AssertCalled(s.T(), "SaveEntryForTransaction",
		mock.Anything, mock.Anything, mock.Anything, txnID, s.userID, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateFromTransactionNegativeAmountInvertsLegs() {
	txnID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: txnID,
		CompanyID:     s.companyID,
		Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Description:   "Refund issued",
		Amount:        decimal.NewFromInt(-250),
		AccountCode:   s.expenseAccount.Code,
	}

	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(&txn, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.expenseAccount.Code).Return(&s.expenseAccount, nil)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "cash").Return(&s.cashAccount, nil)
	s.expectOpenGuards(s.expenseAccount.Code, s.cashAccount.Code)

	var savedLines []domain.JournalLine
	s.mockEntryRepo.On("SaveEntryForTransaction",
		mock.Anything, mock.Anything, mock.Anything, txnID, s.userID, mock.Anything).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil)

	_, err := s.service.CreateFromTransaction(context.Background(), s.companyID, txnID, s.userID)
	require.NoError(s.T(), err)

	require.Len(s.T(), savedLines, 2)
	byCode := map[string]domain.JournalLine{}
	for _, line := range savedLines {
		byCode[line.AccountCode] = line
	}
	// Negative amount on a debit-normal account credits it and debits cash's
	// counterparty side, with the absolute value.
	assert.True(s.T(), byCode[s.expenseAccount.Code].Credit.Equal(decimal.NewFromInt(250)))
	assert.True(s.T(), byCode[s.cashAccount.Code].Debit.Equal(decimal.NewFromInt(250)))
}

func (s *JournalServiceTestSuite) TestCreateFromTransactionWithoutContraAccount() {
	txnID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: txnID,
		CompanyID:     s.companyID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:   "Client payment",
		Amount:        decimal.NewFromInt(100),
		AccountCode:   s.revenueAccount.Code,
	}

	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(&txn, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "cash").Return(nil, apperrors.ErrNotFound)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.CreateFromTransaction(context.Background(), s.companyID, txnID, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrNoContraAccount)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntryForTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateFromTransactionConcurrentValidationConflicts() {
	txnID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: txnID,
		CompanyID:     s.companyID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:   "Client payment",
		Amount:        decimal.NewFromInt(100),
		AccountCode:   s.revenueAccount.Code,
	}

	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(&txn, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockAccountRepo.On("FindFirstActiveAsset", mock.Anything, s.companyID, "cash").Return(&s.cashAccount, nil)
	s.expectOpenGuards(s.revenueAccount.Code, s.cashAccount.Code)

	// Another caller validated the transaction between the read and the write.
	// The repository rolls back the entry with the validation flag, so the
	// conflict must surface instead of leaving a posted entry behind.
	s.mockEntryRepo.On("SaveEntryForTransaction",
		mock.Anything, mock.Anything, mock.Anything, txnID, s.userID, mock.Anything).
		Return(fmt.Errorf("%w: transaction %s is already validated", apperrors.ErrConflict, txnID))

	_, err := s.service.CreateFromTransaction(context.Background(), s.companyID, txnID, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestCreateFromTransactionAlreadyValidated() {
	txnID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: txnID,
		CompanyID:     s.companyID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(100),
		AccountCode:   s.revenueAccount.Code,
		IsValidated:   true,
	}
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(&txn, nil)

	_, err := s.service.CreateFromTransaction(context.Background(), s.companyID, txnID, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestCreateEntryRejectsUnbalancedLines() {
	req := dto.CreateEntryRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Broken entry",
		Lines: []dto.CreateLineRequest{
			{AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(300)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(250)},
		},
	}

	_, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrInconsistentData)
	// Nothing must persist when the entry does not balance.
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntryPostsBalancedLines() {
	req := dto.CreateEntryRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Invoice paid",
		Lines: []dto.CreateLineRequest{
			{AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(500)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(500)},
		},
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.expectOpenGuards(s.cashAccount.Code, s.revenueAccount.Code)
	s.mockEntryRepo.On("SaveEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	entry, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.Posted, entry.Status)
	assert.Len(s.T(), entry.Lines, 2)
}

func (s *JournalServiceTestSuite) TestCreateEntryRejectsArchivedCompany() {
	archived := s.company
	archived.IsArchived = true

	req := dto.CreateEntryRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Entry on archived books",
		Lines: []dto.CreateLineRequest{
			{AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(100)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(100)},
		},
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&archived, nil)

	_, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrArchivedCompany)
}

func (s *JournalServiceTestSuite) TestCreateEntryRejectsDateBehindSnapshot() {
	entryDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	snapshot := domain.BalanceSnapshot{
		CompanyID:   s.companyID,
		AccountCode: s.cashAccount.Code,
		Timestamp:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		Balance:     decimal.NewFromInt(-1000),
	}

	req := dto.CreateEntryRequest{
		Date:        entryDate,
		Description: "Backdated entry",
		Lines: []dto.CreateLineRequest{
			{AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(100)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(100)},
		},
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockClosingRepo.On("FindLatestClosed", mock.Anything, s.companyID).Return(nil, apperrors.ErrNotFound)
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, s.cashAccount.Code).Return(&snapshot, nil)

	_, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrRetroactiveOperation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntryRejectsFutureDate() {
	req := dto.CreateEntryRequest{
		Date:        time.Now().Add(48 * time.Hour),
		Description: "Entry from tomorrow",
		Lines: []dto.CreateLineRequest{
			{AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(100)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(100)},
		},
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)
	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)

	_, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrFutureOperation)
}

func (s *JournalServiceTestSuite) TestCreateEntryRejectsGroupAccountLine() {
	group := s.cashAccount
	group.Code = "1.1.1.10"
	group.Level = 4
	group.IsGroup = true

	req := dto.CreateEntryRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Line on group account",
		Lines: []dto.CreateLineRequest{
			{AccountCode: group.Code, Debit: decimal.NewFromInt(100)},
			{AccountCode: s.revenueAccount.Code, Credit: decimal.NewFromInt(100)},
		},
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, group.Code).Return(&group, nil)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.revenueAccount.Code).Return(&s.revenueAccount, nil)

	_, err := s.service.CreateEntry(context.Background(), s.companyID, req, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestReverseEntrySwapsDebitAndCredit() {
	entryID := uuid.NewString()
	original := domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   s.companyID,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Client payment",
		Status:      domain.Posted,
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, CompanyID: s.companyID, AccountCode: s.cashAccount.Code, Debit: decimal.NewFromInt(1000), Credit: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entryID, CompanyID: s.companyID, AccountCode: s.revenueAccount.Code, Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
	}

	s.mockEntryRepo.On("FindEntryByID", mock.Anything, entryID).Return(&original, nil)
	s.mockEntryRepo.On("FindLinesByEntryID", mock.Anything, entryID).Return(originalLines, nil)
	s.expectOpenGuards(s.cashAccount.Code, s.revenueAccount.Code)

	var savedLines []domain.JournalLine
	s.mockEntryRepo.On("SaveEntry", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil)
	s.mockEntryRepo.On("MarkReversed", mock.Anything, entryID, mock.Anything, s.userID, mock.Anything).Return(nil)

	reversal, err := s.service.ReverseEntry(context.Background(), s.companyID, entryID, s.userID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), reversal.Reverses)
	assert.Equal(s.T(), entryID, *reversal.Reverses)

	require.Len(s.T(), savedLines, 2)
	byCode := map[string]domain.JournalLine{}
	for _, line := range savedLines {
		byCode[line.AccountCode] = line
	}
	assert.True(s.T(), byCode[s.cashAccount.Code].Credit.Equal(decimal.NewFromInt(1000)))
	assert.True(s.T(), byCode[s.revenueAccount.Code].Debit.Equal(decimal.NewFromInt(1000)))
}

func (s *JournalServiceTestSuite) TestReverseEntryRejectsNonPostedStatus() {
	entryID := uuid.NewString()
	reversed := domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: s.companyID,
		Status:    domain.Reversed,
	}
	s.mockEntryRepo.On("FindEntryByID", mock.Anything, entryID).Return(&reversed, nil)

	_, err := s.service.ReverseEntry(context.Background(), s.companyID, entryID, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestReverseEntryRejectsReversalOfReversal() {
	entryID := uuid.NewString()
	originalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: s.companyID,
		Status:    domain.Posted,
		Reverses:  &originalID,
	}
	s.mockEntryRepo.On("FindEntryByID", mock.Anything, entryID).Return(&reversal, nil)

	_, err := s.service.ReverseEntry(context.Background(), s.companyID, entryID, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
