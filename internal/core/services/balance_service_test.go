package services_test

import (
	"context"
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
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockSnapshotRepo *MockSnapshotRepository
	mockEntryRepo    *MockEntryRepository
	mockAccountRepo  *MockAccountRepository
	mockCompanyRepo  *MockCompanyRepository
	service          portssvc.BalanceSvcFacade

	companyID   string
	userID      string
	company     domain.Company
	cashAccount domain.Account
}

func (s *BalanceServiceTestSuite) SetupTest() {
	s.mockSnapshotRepo = new(MockSnapshotRepository)
	s.mockEntryRepo = new(MockEntryRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockCompanyRepo = new(MockCompanyRepository)
	s.service = services.NewBalanceService(s.mockSnapshotRepo, s.mockEntryRepo, s.mockAccountRepo, s.mockCompanyRepo)

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
}

func (s *BalanceServiceTestSuite) TestCalculateBalanceWithoutSnapshot() {
	asOf := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockSnapshotRepo.On("FindLatestAtOrBefore", mock.Anything, s.companyID, s.cashAccount.Code, asOf).
		Return(nil, apperrors.ErrNotFound)
	s.mockEntryRepo.On("SumLines", mock.Anything, s.companyID, s.cashAccount.Code, (*time.Time)(nil), asOf).
		Return(decimal.NewFromInt(1000), decimal.Zero, nil)

	balance, err := s.service.CalculateBalance(context.Background(), s.companyID, s.cashAccount.Code, asOf)
	require.NoError(s.T(), err)
	// A 1000 debit stores as credit - debit = -1000.
	assert.True(s.T(), balance.Equal(decimal.NewFromInt(-1000)), "got %s", balance)
}

func (s *BalanceServiceTestSuite) TestCalculateBalanceAddsDeltaSinceSnapshot() {
	snapTime := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC)
	snapshot := domain.BalanceSnapshot{
		SnapshotID:  uuid.NewString(),
		CompanyID:   s.companyID,
		AccountCode: s.cashAccount.Code,
		Timestamp:   snapTime,
		Balance:     decimal.NewFromInt(-1000),
	}

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockSnapshotRepo.On("FindLatestAtOrBefore", mock.Anything, s.companyID, s.cashAccount.Code, asOf).
		Return(&snapshot, nil)
	s.mockEntryRepo.On("SumLines", mock.Anything, s.companyID, s.cashAccount.Code, &snapTime, asOf).
		Return(decimal.NewFromInt(500), decimal.Zero, nil)

	balance, err := s.service.CalculateBalance(context.Background(), s.companyID, s.cashAccount.Code, asOf)
	require.NoError(s.T(), err)
	// Snapshot -1000 plus a further 500 debit gives -1500; only the entries
	// after the snapshot are aggregated.
	assert.True(s.T(), balance.Equal(decimal.NewFromInt(-1500)), "got %s", balance)
}

func (s *BalanceServiceTestSuite) TestCreateSnapshotRejectsFutureTimestamp() {
	future := time.Now().Add(48 * time.Hour)

	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)

	_, err := s.service.CreateSnapshot(context.Background(), s.companyID, s.cashAccount.Code, future, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrFutureOperation)
	s.mockSnapshotRepo.AssertNotCalled(s.T(), "CreateSnapshot", mock.Anything, mock.Anything)
}

func (s *BalanceServiceTestSuite) TestCreateSnapshotRejectsTimestampBehindLatest() {
	existing := domain.BalanceSnapshot{
		SnapshotID:  uuid.NewString(),
		CompanyID:   s.companyID,
		AccountCode: s.cashAccount.Code,
		Timestamp:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		Balance:     decimal.NewFromInt(-1000),
	}
	retro := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, s.cashAccount.Code).Return(&existing, nil)

	_, err := s.service.CreateSnapshot(context.Background(), s.companyID, s.cashAccount.Code, retro, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrRetroactiveOperation)
	s.mockSnapshotRepo.AssertNotCalled(s.T(), "CreateSnapshot", mock.Anything, mock.Anything)
}

func (s *BalanceServiceTestSuite) TestCreateSnapshotStoresComputedBalance() {
	timestamp := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, s.cashAccount.Code).Return(nil, apperrors.ErrNotFound)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockSnapshotRepo.On("FindLatestAtOrBefore", mock.Anything, s.companyID, s.cashAccount.Code, timestamp).
		Return(nil, apperrors.ErrNotFound)
	s.mockEntryRepo.On("SumLines", mock.Anything, s.companyID, s.cashAccount.Code, (*time.Time)(nil), timestamp).
		Return(decimal.NewFromInt(1000), decimal.Zero, nil)

	var created domain.BalanceSnapshot
	s.mockSnapshotRepo.On("CreateSnapshot", mock.Anything, mock.AnythingOfType("domain.BalanceSnapshot")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(domain.BalanceSnapshot)
		}).Return(nil)

	snapshot, err := s.service.CreateSnapshot(context.Background(), s.companyID, s.cashAccount.Code, timestamp, s.userID)
	require.NoError(s.T(), err)
	assert.True(s.T(), snapshot.Balance.Equal(decimal.NewFromInt(-1000)))
	assert.True(s.T(), created.Balance.Equal(decimal.NewFromInt(-1000)))
	assert.Equal(s.T(), timestamp, created.Timestamp)
}

func (s *BalanceServiceTestSuite) TestSaveBalancesSkipsAccountsWithoutNewActivity() {
	timestamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	staleCode := "4.1.1.20.1"
	staleSnapshot := domain.BalanceSnapshot{
		SnapshotID:  uuid.NewString(),
		CompanyID:   s.companyID,
		AccountCode: staleCode,
		Timestamp:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		Balance:     decimal.NewFromInt(1000),
	}

	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockEntryRepo.On("AccountsWithLines", mock.Anything, s.companyID).
		Return([]string{s.cashAccount.Code, staleCode}, nil)

	// Cash has no snapshot yet: checkpointed.
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, s.cashAccount.Code).Return(nil, apperrors.ErrNotFound)
	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockSnapshotRepo.On("FindLatestAtOrBefore", mock.Anything, s.companyID, s.cashAccount.Code, timestamp).
		Return(nil, apperrors.ErrNotFound)
	s.mockEntryRepo.On("SumLines", mock.Anything, s.companyID, s.cashAccount.Code, (*time.Time)(nil), timestamp).
		Return(decimal.NewFromInt(1000), decimal.Zero, nil)
	s.mockSnapshotRepo.On("CreateSnapshot", mock.Anything, mock.Anything).Return(nil)

	// The revenue account has a snapshot and nothing since: skipped.
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, staleCode).Return(&staleSnapshot, nil)
	s.mockEntryRepo.On("HasLinesAfter", mock.Anything, s.companyID, staleCode, staleSnapshot.Timestamp).Return(false, nil)

	created, err := s.service.SaveBalances(context.Background(), s.companyID, timestamp, s.userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, created)
	s.mockSnapshotRepo.AssertNumberOfCalls(s.T(), "CreateSnapshot", 1)
}

func (s *BalanceServiceTestSuite) TestSaveBalancesIsIdempotentForRepeatedTimestamp() {
	timestamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	existing := domain.BalanceSnapshot{
		SnapshotID:  uuid.NewString(),
		CompanyID:   s.companyID,
		AccountCode: s.cashAccount.Code,
		Timestamp:   timestamp,
		Balance:     decimal.NewFromInt(-1000),
	}

	s.mockCompanyRepo.On("FindCompanyByID", mock.Anything, s.companyID).Return(&s.company, nil)
	s.mockEntryRepo.On("AccountsWithLines", mock.Anything, s.companyID).Return([]string{s.cashAccount.Code}, nil)
	s.mockSnapshotRepo.On("FindLatest", mock.Anything, s.companyID, s.cashAccount.Code).Return(&existing, nil)

	created, err := s.service.SaveBalances(context.Background(), s.companyID, timestamp, s.userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, created)
	s.mockSnapshotRepo.AssertNotCalled(s.T(), "CreateSnapshot", mock.Anything, mock.Anything)
}

func (s *BalanceServiceTestSuite) TestCreditsDebitsRejectsInvertedWindow() {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := s.service.CreditsDebits(context.Background(), s.companyID, []string{s.cashAccount.Code}, start, end)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *BalanceServiceTestSuite) TestCreditsDebitsBypassesSnapshots() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	s.mockAccountRepo.On("FindAccountByCode", mock.Anything, s.companyID, s.cashAccount.Code).Return(&s.cashAccount, nil)
	s.mockEntryRepo.On("SumLinesInWindow", mock.Anything, s.companyID, []string{s.cashAccount.Code}, start, end).
		Return(decimal.NewFromInt(1500), decimal.NewFromInt(200), nil)

	credits, debits, err := s.service.CreditsDebits(context.Background(), s.companyID, []string{s.cashAccount.Code}, start, end)
	require.NoError(s.T(), err)
	assert.True(s.T(), credits.Equal(decimal.NewFromInt(200)))
	assert.True(s.T(), debits.Equal(decimal.NewFromInt(1500)))
	s.mockSnapshotRepo.AssertNotCalled(s.T(), "FindLatestAtOrBefore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
