package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/utils/accounting"
)

// loanServiceImpl implements the LoanSvcFacade interface
type loanServiceImpl struct {
	BaseService
	loanRepo    portsrepo.LoanRepositoryFacade
	paymentRepo portsrepo.PaymentReader
}

// NewLoanService creates a new loan service.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, paymentRepo portsrepo.PaymentReader) portssvc.LoanSvcFacade {
	return &loanServiceImpl{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

var _ portssvc.LoanSvcFacade = (*loanServiceImpl)(nil)

func (s *loanServiceImpl) CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error) {
	dueDate, err := time.Parse(dto.DateFormat, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", req.DueDate, apperrors.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = domain.LoanStatusActive
	}
	if !domain.ValidLoanStatus(status) {
		return nil, fmt.Errorf("invalid loan status %q: %w", status, apperrors.ErrValidation)
	}
	if !domain.ValidPaymentSchedule(req.PaymentSchedule) {
		return nil, fmt.Errorf("invalid payment schedule %q: %w", req.PaymentSchedule, apperrors.ErrValidation)
	}

	// Running the interest computation up front rejects out-of-range terms
	// before anything is persisted.
	if _, _, err := accounting.ComputeInterest(req.PrincipalAmount, req.InterestRate); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	now := time.Now()
	loan := domain.Loan{
		LoanID:          uuid.NewString(),
		UserID:          userID,
		BorrowerName:    req.BorrowerName,
		BorrowerEmail:   req.BorrowerEmail,
		BorrowerPhone:   req.BorrowerPhone,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		DueDate:         dueDate,
		PaymentSchedule: req.PaymentSchedule,
		Status:          status,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("loan_id", loan.LoanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan created",
		slog.String("loan_id", loan.LoanID),
		slog.String("borrower_name", loan.BorrowerName))
	return &loan, nil
}

func (s *loanServiceImpl) GetLoanByID(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find loan by ID", slog.String("loan_id", loanID))
		}
		return nil, err
	}

	// Loans of other users answer NotFound to obscure their existence.
	if loan.UserID != userID {
		s.LogDebug(ctx, "Loan belongs to different user",
			slog.String("loan_id", loanID),
			slog.String("owner_id", loan.UserID))
		return nil, apperrors.ErrNotFound
	}

	return loan, nil
}

func (s *loanServiceImpl) GetLoanWithSummary(ctx context.Context, userID string, loanID string) (*domain.Loan, *domain.LoanSummary, error) {
	loan, err := s.GetLoanByID(ctx, userID, loanID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.paymentRepo.FindPaymentsByLoanID(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payments for summary", slog.String("loan_id", loanID))
		return nil, nil, fmt.Errorf("failed to load payments for loan %s: %w", loanID, err)
	}

	summary, err := accounting.Summarize(*loan, payments)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize loan", slog.String("loan_id", loanID))
		return nil, nil, err
	}

	return loan, &summary, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) ([]domain.Loan, int, error) {
	params.Normalize()

	filter := portsrepo.LoanListFilter{
		Status:          params.Status,
		PaymentSchedule: params.PaymentSchedule,
		Search:          params.Search,
		SortBy:          params.SortBy,
		SortOrder:       params.SortOrder,
		Limit:           params.Limit,
		Offset:          params.Offset(),
	}

	loans, total, err := s.loanRepo.ListLoans(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans")
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	if loans == nil {
		loans = []domain.Loan{}
	}

	s.LogDebug(ctx, "Loans listed", slog.Int("count", len(loans)), slog.Int("total", total))
	return loans, total, nil
}

func (s *loanServiceImpl) UpdateLoan(ctx context.Context, userID string, loanID string, req dto.UpdateLoanRequest) (*domain.Loan, error) {
	loan, err := s.GetLoanByID(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.BorrowerName != nil {
		if *req.BorrowerName == "" {
			return nil, fmt.Errorf("borrower name must not be empty: %w", apperrors.ErrValidation)
		}
		loan.BorrowerName = *req.BorrowerName
		updated = true
	}
	if req.BorrowerEmail != nil {
		loan.BorrowerEmail = *req.BorrowerEmail
		updated = true
	}
	if req.BorrowerPhone != nil {
		loan.BorrowerPhone = *req.BorrowerPhone
		updated = true
	}
	if req.PrincipalAmount != nil {
		loan.PrincipalAmount = *req.PrincipalAmount
		updated = true
	}
	if req.InterestRate != nil {
		loan.InterestRate = *req.InterestRate
		updated = true
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dto.DateFormat, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", *req.DueDate, apperrors.ErrValidation)
		}
		loan.DueDate = dueDate
		updated = true
	}
	if req.PaymentSchedule != nil {
		if !domain.ValidPaymentSchedule(*req.PaymentSchedule) {
			return nil, fmt.Errorf("invalid payment schedule %q: %w", *req.PaymentSchedule, apperrors.ErrValidation)
		}
		loan.PaymentSchedule = *req.PaymentSchedule
		updated = true
	}
	if req.Status != nil {
		if !domain.ValidLoanStatus(*req.Status) {
			return nil, fmt.Errorf("invalid loan status %q: %w", *req.Status, apperrors.ErrValidation)
		}
		loan.Status = *req.Status
		updated = true
	}
	if req.Notes != nil {
		loan.Notes = *req.Notes
		updated = true
	}

	if !updated {
		s.LogDebug(ctx, "No fields provided for loan update", slog.String("loan_id", loanID))
		return loan, nil
	}

	// Re-validate the terms as a pair; either field may have changed.
	if _, _, err := accounting.ComputeInterest(loan.PrincipalAmount, loan.InterestRate); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	loan.UpdatedAt = time.Now()
	if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
		s.LogError(ctx, err, "Failed to update loan", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan updated", slog.String("loan_id", loanID))
	return loan, nil
}

func (s *loanServiceImpl) DeleteLoan(ctx context.Context, userID string, loanID string) error {
	// Ownership check before the destructive call.
	if _, err := s.GetLoanByID(ctx, userID, loanID); err != nil {
		return err
	}

	if err := s.loanRepo.DeleteLoan(ctx, loanID); err != nil {
		s.LogError(ctx, err, "Failed to delete loan", slog.String("loan_id", loanID))
		return err
	}

	s.LogInfo(ctx, "Loan deleted with its payments", slog.String("loan_id", loanID))
	return nil
}
