package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/core/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	return loan, args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context, userID string, filter portsrepo.LoanListFilter) ([]domain.Loan, int, error) {
	args := m.Called(ctx, userID, filter)
	var loans []domain.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]domain.Loan)
	}
	return loans, args.Int(1), args.Error(2)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

// --- Test Suite ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo    *MockLoanRepository
	mockPaymentRepo *MockPaymentRepository
	service         portssvc.LoanSvcFacade
	userID          string
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockPaymentRepo)
	suite.userID = uuid.NewString()
}

func (suite *LoanServiceTestSuite) ownedLoan(loanID string) *domain.Loan {
	return &domain.Loan{
		LoanID:          loanID,
		UserID:          suite.userID,
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		InterestRate:    decimal.NewFromInt(10),
		DueDate:         time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		PaymentSchedule: domain.ScheduleMonthly,
		Status:          domain.LoanStatusActive,
	}
}

// --- CreateLoan Tests ---

func (suite *LoanServiceTestSuite) TestCreateLoan_Success() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		InterestRate:    decimal.NewFromInt(10),
		DueDate:         "2026-12-01",
		PaymentSchedule: domain.ScheduleMonthly,
	}

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(loan domain.Loan) bool {
		return loan.UserID == suite.userID &&
			loan.BorrowerName == "Asha Rao" &&
			loan.Status == domain.LoanStatusActive &&
			loan.LoanID != ""
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanStatusActive, loan.Status) // defaulted when absent
	suite.Equal("2026-12-01", loan.DueDate.Format(dto.DateFormat))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InvalidDueDate() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		DueDate:         "12/01/2026",
		PaymentSchedule: domain.ScheduleMonthly,
	}

	loan, err := suite.service.CreateLoan(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_RateOutOfRange() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		InterestRate:    decimal.NewFromInt(120),
		DueDate:         "2026-12-01",
		PaymentSchedule: domain.ScheduleMonthly,
	}

	loan, err := suite.service.CreateLoan(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InvalidSchedule() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		DueDate:         "2026-12-01",
		PaymentSchedule: domain.PaymentSchedule("fortnightly"),
	}

	loan, err := suite.service.CreateLoan(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- GetLoanByID Tests ---

func (suite *LoanServiceTestSuite) TestGetLoanByID_Success() {
	ctx := context.Background()
	loanID := uuid.NewString()
	expected := suite.ownedLoan(loanID)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(expected, nil).Once()

	loan, err := suite.service.GetLoanByID(ctx, suite.userID, loanID)

	suite.Require().NoError(err)
	suite.Equal(expected, loan)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestGetLoanByID_OtherUsersLoanIsNotFound() {
	ctx := context.Background()
	loanID := uuid.NewString()
	foreign := suite.ownedLoan(loanID)
	foreign.UserID = uuid.NewString()

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(foreign, nil).Once()

	loan, err := suite.service.GetLoanByID(ctx, suite.userID, loanID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LoanServiceTestSuite) TestGetLoanByID_RepoError() {
	ctx := context.Background()
	loanID := uuid.NewString()
	expectedErr := assert.AnError

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(nil, expectedErr).Once()

	loan, err := suite.service.GetLoanByID(ctx, suite.userID, loanID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, expectedErr)
}

// --- GetLoanWithSummary Tests ---

func (suite *LoanServiceTestSuite) TestGetLoanWithSummary_DerivesBalances() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)

	payments := []domain.Payment{
		{PaymentID: "p1", LoanID: loanID, Amount: decimal.NewFromInt(400), PaymentDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		{PaymentID: "p2", LoanID: loanID, Amount: decimal.NewFromInt(300), PaymentDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
	}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, loanID).Return(payments, nil).Once()

	loan, summary, err := suite.service.GetLoanWithSummary(ctx, suite.userID, loanID)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Require().NotNil(summary)
	// 1000 principal at 10% simple interest: payoff 1100, 700 paid.
	suite.True(summary.TotalPayoff.Equal(decimal.NewFromInt(1100)), "payoff = %s", summary.TotalPayoff)
	suite.True(summary.TotalPaid.Equal(decimal.NewFromInt(700)), "paid = %s", summary.TotalPaid)
	suite.True(summary.RemainingAmount.Equal(decimal.NewFromInt(400)), "remaining = %s", summary.RemainingAmount)
	suite.Equal(2, summary.PaymentCount)
	suite.mockLoanRepo.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestGetLoanWithSummary_PaymentRepoError() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)
	expectedErr := assert.AnError

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, loanID).Return(nil, expectedErr).Once()

	loan, summary, err := suite.service.GetLoanWithSummary(ctx, suite.userID, loanID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.Nil(summary)
	suite.ErrorIs(err, expectedErr)
}

// --- ListLoans Tests ---

func (suite *LoanServiceTestSuite) TestListLoans_NormalizesParams() {
	ctx := context.Background()
	loans := []domain.Loan{*suite.ownedLoan(uuid.NewString())}

	suite.mockLoanRepo.On("ListLoans", ctx, suite.userID, mock.MatchedBy(func(f portsrepo.LoanListFilter) bool {
		return f.SortBy == "created_at" && f.SortOrder == "desc" && f.Limit == 10 && f.Offset == 0
	})).Return(loans, 1, nil).Once()

	got, total, err := suite.service.ListLoans(ctx, suite.userID, dto.ListLoansParams{})

	suite.Require().NoError(err)
	suite.Equal(1, total)
	suite.Len(got, 1)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestListLoans_EmptyResultIsNotNil() {
	ctx := context.Background()

	suite.mockLoanRepo.On("ListLoans", ctx, suite.userID, mock.AnythingOfType("repositories.LoanListFilter")).Return(nil, 0, nil).Once()

	got, total, err := suite.service.ListLoans(ctx, suite.userID, dto.ListLoansParams{})

	suite.Require().NoError(err)
	suite.Equal(0, total)
	suite.NotNil(got)
	suite.Empty(got)
}

// --- UpdateLoan Tests ---

func (suite *LoanServiceTestSuite) TestUpdateLoan_PartialUpdate() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)
	newName := "Binod Lama"

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()
	suite.mockLoanRepo.On("UpdateLoan", ctx, mock.MatchedBy(func(loan domain.Loan) bool {
		return loan.BorrowerName == newName && loan.PrincipalAmount.Equal(decimal.NewFromInt(1000))
	})).Return(nil).Once()

	loan, err := suite.service.UpdateLoan(ctx, suite.userID, loanID, dto.UpdateLoanRequest{BorrowerName: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, loan.BorrowerName)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_NoFieldsIsNoOp() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()

	loan, err := suite.service.UpdateLoan(ctx, suite.userID, loanID, dto.UpdateLoanRequest{})

	suite.Require().NoError(err)
	suite.Equal(owned, loan)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_RevalidatesTermsPair() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)
	badRate := decimal.NewFromInt(101)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()

	loan, err := suite.service.UpdateLoan(ctx, suite.userID, loanID, dto.UpdateLoanRequest{InterestRate: &badRate})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_InvalidStatus() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)
	badStatus := domain.LoanStatus("cancelled")

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()

	loan, err := suite.service.UpdateLoan(ctx, suite.userID, loanID, dto.UpdateLoanRequest{Status: &badStatus})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- DeleteLoan Tests ---

func (suite *LoanServiceTestSuite) TestDeleteLoan_Success() {
	ctx := context.Background()
	loanID := uuid.NewString()
	owned := suite.ownedLoan(loanID)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(owned, nil).Once()
	suite.mockLoanRepo.On("DeleteLoan", ctx, loanID).Return(nil).Once()

	err := suite.service.DeleteLoan(ctx, suite.userID, loanID)

	suite.Require().NoError(err)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestDeleteLoan_OtherUsersLoan() {
	ctx := context.Background()
	loanID := uuid.NewString()
	foreign := suite.ownedLoan(loanID)
	foreign.UserID = uuid.NewString()

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(foreign, nil).Once()

	err := suite.service.DeleteLoan(ctx, suite.userID, loanID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "DeleteLoan", mock.Anything, mock.Anything)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
