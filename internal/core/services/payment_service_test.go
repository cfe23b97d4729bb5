package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/core/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LoanReaderSvc ---
type MockLoanReaderSvc struct {
	mock.Mock
}

func (m *MockLoanReaderSvc) GetLoanByID(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, userID, loanID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	return loan, args.Error(1)
}

func (m *MockLoanReaderSvc) GetLoanWithSummary(ctx context.Context, userID string, loanID string) (*domain.Loan, *domain.LoanSummary, error) {
	args := m.Called(ctx, userID, loanID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	var summary *domain.LoanSummary
	if args.Get(1) != nil {
		summary = args.Get(1).(*domain.LoanSummary)
	}
	return loan, summary, args.Error(2)
}

func (m *MockLoanReaderSvc) ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) ([]domain.Loan, int, error) {
	args := m.Called(ctx, userID, params)
	var loans []domain.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]domain.Loan)
	}
	return loans, args.Int(1), args.Error(2)
}

// --- Test Suite ---
type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockLoanSvc     *MockLoanReaderSvc
	service         portssvc.PaymentSvcFacade
	userID          string
	loanID          string
	loan            *domain.Loan
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockLoanSvc = new(MockLoanReaderSvc)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockLoanSvc)
	suite.userID = uuid.NewString()
	suite.loanID = uuid.NewString()
	suite.loan = &domain.Loan{
		LoanID:          suite.loanID,
		UserID:          suite.userID,
		BorrowerName:    "Asha Rao",
		PrincipalAmount: decimal.NewFromInt(1000),
		InterestRate:    decimal.NewFromInt(10),
		Status:          domain.LoanStatusActive,
	}
}

func (suite *PaymentServiceTestSuite) expectOwnedLoan() {
	suite.mockLoanSvc.On("GetLoanByID", mock.Anything, suite.userID, suite.loanID).Return(suite.loan, nil)
}

func paymentOn(loanID, paymentID string, amount int64, date time.Time) domain.Payment {
	return domain.Payment{
		PaymentID:   paymentID,
		LoanID:      loanID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: date,
	}
}

// --- RecordPayment Tests ---

func (suite *PaymentServiceTestSuite) TestRecordPayment_Success() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	req := dto.CreatePaymentRequest{
		Amount:        decimal.NewFromInt(250),
		PaymentDate:   "2026-01-15",
		PaymentMethod: domain.MethodCash,
	}

	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.LoanID == suite.loanID &&
			p.Amount.Equal(decimal.NewFromInt(250)) &&
			p.PaymentMethod == domain.MethodCash &&
			p.PaymentID != ""
	})).Return(nil).Once()

	payment, err := suite.service.RecordPayment(ctx, suite.userID, suite.loanID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal("2026-01-15", payment.PaymentDate.Format(dto.DateFormat))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_FutureDateRejected() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	req := dto.CreatePaymentRequest{
		Amount:      decimal.NewFromInt(250),
		PaymentDate: "2999-01-01",
	}

	payment, err := suite.service.RecordPayment(ctx, suite.userID, suite.loanID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	req := dto.CreatePaymentRequest{
		Amount:      decimal.Zero,
		PaymentDate: "2026-01-15",
	}

	payment, err := suite.service.RecordPayment(ctx, suite.userID, suite.loanID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_LoanNotOwned() {
	ctx := context.Background()
	suite.mockLoanSvc.On("GetLoanByID", mock.Anything, suite.userID, suite.loanID).Return(nil, apperrors.ErrNotFound)

	payment, err := suite.service.RecordPayment(ctx, suite.userID, suite.loanID, dto.CreatePaymentRequest{
		Amount:      decimal.NewFromInt(250),
		PaymentDate: "2026-01-15",
	})

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

// --- UpdatePayment Tests ---

func (suite *PaymentServiceTestSuite) TestUpdatePayment_Success() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	paymentID := uuid.NewString()
	existing := paymentOn(suite.loanID, paymentID, 100, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	newAmount := decimal.NewFromInt(175)

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(&existing, nil).Once()
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.PaymentID == paymentID && p.Amount.Equal(newAmount)
	})).Return(nil).Once()

	payment, err := suite.service.UpdatePayment(ctx, suite.userID, suite.loanID, paymentID, dto.UpdatePaymentRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.True(payment.Amount.Equal(newAmount))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestUpdatePayment_WrongLoanIsNotFound() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	paymentID := uuid.NewString()
	other := paymentOn(uuid.NewString(), paymentID, 100, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	newAmount := decimal.NewFromInt(175)

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(&other, nil).Once()

	payment, err := suite.service.UpdatePayment(ctx, suite.userID, suite.loanID, paymentID, dto.UpdatePaymentRequest{Amount: &newAmount})

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdatePayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestUpdatePayment_FutureDateRejected() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	paymentID := uuid.NewString()
	existing := paymentOn(suite.loanID, paymentID, 100, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	futureDate := "2999-01-01"

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(&existing, nil).Once()

	payment, err := suite.service.UpdatePayment(ctx, suite.userID, suite.loanID, paymentID, dto.UpdatePaymentRequest{PaymentDate: &futureDate})

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- DeletePayment Tests ---

func (suite *PaymentServiceTestSuite) TestDeletePayment_Success() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	paymentID := uuid.NewString()
	existing := paymentOn(suite.loanID, paymentID, 100, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(&existing, nil).Once()
	suite.mockPaymentRepo.On("DeletePayment", ctx, paymentID).Return(nil).Once()

	err := suite.service.DeletePayment(ctx, suite.userID, suite.loanID, paymentID)

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

// --- ListPayments Tests ---

func (suite *PaymentServiceTestSuite) TestListPayments_AnnotatesAndSummarizes() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	payments := []domain.Payment{
		paymentOn(suite.loanID, "p2", 300, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
		paymentOn(suite.loanID, "p1", 400, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
	}

	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, suite.loanID).Return(payments, nil).Once()

	listing, err := suite.service.ListPayments(ctx, suite.userID, suite.loanID, dto.ListPaymentsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(listing)
	suite.Equal(2, listing.Total)
	suite.Require().Len(listing.Payments, 2)

	// Default display order is payment_date descending: p2 first.
	suite.Equal("p2", listing.Payments[0].PaymentID)
	suite.Equal("p1", listing.Payments[1].PaymentID)

	// Balances are derived chronologically: 1100 - 400 = 700 after p1,
	// 700 - 300 = 400 after p2, regardless of display order.
	suite.True(listing.Payments[0].RunningBalance.Equal(decimal.NewFromInt(400)), "after p2 = %s", listing.Payments[0].RunningBalance)
	suite.True(listing.Payments[1].RunningBalance.Equal(decimal.NewFromInt(700)), "after p1 = %s", listing.Payments[1].RunningBalance)

	suite.True(listing.Summary.TotalPaid.Equal(decimal.NewFromInt(700)))
	suite.True(listing.Summary.RemainingAmount.Equal(decimal.NewFromInt(400)))
	suite.Equal(2, listing.Summary.PaymentCount)
}

func (suite *PaymentServiceTestSuite) TestListPayments_SummaryCoversAllPagesAndBalanceClampsForDisplay() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	payments := make([]domain.Payment, 3)
	for i := range payments {
		// 3 x 400 overpays the 1100 payoff.
		payments[i] = paymentOn(suite.loanID, uuid.NewString(), 400, base.AddDate(0, i, 0))
	}

	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, suite.loanID).Return(payments, nil).Once()

	listing, err := suite.service.ListPayments(ctx, suite.userID, suite.loanID, dto.ListPaymentsParams{Page: 1, Limit: 2})

	suite.Require().NoError(err)
	suite.Equal(3, listing.Total)
	suite.Len(listing.Payments, 2)

	// Summary always spans the full set, not the page.
	suite.True(listing.Summary.TotalPaid.Equal(decimal.NewFromInt(1200)))
	suite.True(listing.Summary.RemainingAmount.Equal(decimal.Zero))
	suite.Equal(3, listing.Summary.PaymentCount)

	// Newest-first page starts with the overpaying payment; its displayed
	// balance clamps at zero.
	suite.True(listing.Payments[0].RunningBalance.Equal(decimal.Zero), "clamped = %s", listing.Payments[0].RunningBalance)
}

func (suite *PaymentServiceTestSuite) TestListPayments_PageBeyondEndIsEmpty() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	payments := []domain.Payment{
		paymentOn(suite.loanID, "p1", 100, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
	}

	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, suite.loanID).Return(payments, nil).Once()

	listing, err := suite.service.ListPayments(ctx, suite.userID, suite.loanID, dto.ListPaymentsParams{Page: 5, Limit: 10})

	suite.Require().NoError(err)
	suite.Equal(1, listing.Total)
	suite.NotNil(listing.Payments)
	suite.Empty(listing.Payments)
	suite.Equal(1, listing.Summary.PaymentCount)
}

func (suite *PaymentServiceTestSuite) TestListPayments_SortByAmountAscending() {
	ctx := context.Background()
	suite.expectOwnedLoan()
	payments := []domain.Payment{
		paymentOn(suite.loanID, "big", 900, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
		paymentOn(suite.loanID, "small", 50, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
	}

	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, suite.loanID).Return(payments, nil).Once()

	listing, err := suite.service.ListPayments(ctx, suite.userID, suite.loanID, dto.ListPaymentsParams{SortBy: "amount", SortOrder: "asc"})

	suite.Require().NoError(err)
	suite.Require().Len(listing.Payments, 2)
	suite.Equal("small", listing.Payments[0].PaymentID)
	suite.Equal("big", listing.Payments[1].PaymentID)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
