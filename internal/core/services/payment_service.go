package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// paymentServiceImpl implements the PaymentSvcFacade interface
type paymentServiceImpl struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	loanService portssvc.LoanReaderSvc

	// now is swappable so the future-date rule is testable.
	now func() time.Time
}

// NewPaymentService creates a new payment service. Ownership of the target
// loan is always resolved through the loan service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, loanService portssvc.LoanReaderSvc) portssvc.PaymentSvcFacade {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		loanService: loanService,
		now:         time.Now,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentServiceImpl)(nil)

// parsePaymentDate parses a wire date and enforces the not-in-the-future rule.
func (s *paymentServiceImpl) parsePaymentDate(raw string) (time.Time, error) {
	date, err := time.Parse(dto.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid payment date %q: %w", raw, apperrors.ErrValidation)
	}
	today := s.now().Truncate(24 * time.Hour)
	if date.After(today) {
		return time.Time{}, fmt.Errorf("payment date %s is in the future: %w", raw, apperrors.ErrValidation)
	}
	return date, nil
}

func (s *paymentServiceImpl) RecordPayment(ctx context.Context, userID string, loanID string, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if _, err := s.loanService.GetLoanByID(ctx, userID, loanID); err != nil {
		return nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}
	paymentDate, err := s.parsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if req.PaymentMethod != "" && !domain.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("invalid payment method %q: %w", req.PaymentMethod, apperrors.ErrValidation)
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		LoanID:        loanID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment",
			slog.String("loan_id", loanID),
			slog.String("payment_id", payment.PaymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("loan_id", loanID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", payment.Amount.String()))
	return &payment, nil
}

// getOwnedPayment loads a payment and verifies it belongs to the given loan,
// which in turn must belong to the user.
func (s *paymentServiceImpl) getOwnedPayment(ctx context.Context, userID, loanID, paymentID string) (*domain.Payment, error) {
	if _, err := s.loanService.GetLoanByID(ctx, userID, loanID); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	if payment.LoanID != loanID {
		s.LogDebug(ctx, "Payment belongs to different loan",
			slog.String("payment_id", paymentID),
			slog.String("payment_loan_id", payment.LoanID),
			slog.String("requested_loan_id", loanID))
		return nil, apperrors.ErrNotFound
	}
	return payment, nil
}

func (s *paymentServiceImpl) UpdatePayment(ctx context.Context, userID string, loanID string, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	payment, err := s.getOwnedPayment(ctx, userID, loanID, paymentID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
		}
		payment.Amount = *req.Amount
		updated = true
	}
	if req.PaymentDate != nil {
		paymentDate, err := s.parsePaymentDate(*req.PaymentDate)
		if err != nil {
			return nil, err
		}
		payment.PaymentDate = paymentDate
		updated = true
	}
	if req.PaymentMethod != nil {
		if *req.PaymentMethod != "" && !domain.ValidPaymentMethod(*req.PaymentMethod) {
			return nil, fmt.Errorf("invalid payment method %q: %w", *req.PaymentMethod, apperrors.ErrValidation)
		}
		payment.PaymentMethod = *req.PaymentMethod
		updated = true
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
		updated = true
	}

	if !updated {
		s.LogDebug(ctx, "No fields provided for payment update", slog.String("payment_id", paymentID))
		return payment, nil
	}

	payment.UpdatedAt = s.now()
	if err := s.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
		s.LogError(ctx, err, "Failed to update payment", slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment updated", slog.String("payment_id", paymentID))
	return payment, nil
}

func (s *paymentServiceImpl) DeletePayment(ctx context.Context, userID string, loanID string, paymentID string) error {
	if _, err := s.getOwnedPayment(ctx, userID, loanID, paymentID); err != nil {
		return err
	}

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		s.LogError(ctx, err, "Failed to delete payment", slog.String("payment_id", paymentID))
		return err
	}

	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

func (s *paymentServiceImpl) ListPayments(ctx context.Context, userID string, loanID string, params dto.ListPaymentsParams) (*portssvc.PaymentListing, error) {
	loan, err := s.loanService.GetLoanByID(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	params.Normalize()

	payments, err := s.paymentRepo.FindPaymentsByLoanID(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payments", slog.String("loan_id", loanID))
		return nil, fmt.Errorf("failed to load payments for loan %s: %w", loanID, err)
	}

	summary, err := accounting.Summarize(*loan, payments)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize loan", slog.String("loan_id", loanID))
		return nil, err
	}

	// Balances are always derived oldest-first over the full set; the display
	// order is a separate, later concern.
	ordered := accounting.SortPaymentsChronological(payments)
	balances := accounting.RunningBalances(summary.TotalPayoff, ordered)

	annotated := make([]domain.AnnotatedPayment, len(ordered))
	for i, p := range ordered {
		annotated[i] = domain.AnnotatedPayment{
			Payment:        p,
			RunningBalance: accounting.DisplayBalance(balances[i]),
		}
	}

	sortAnnotatedPayments(annotated, params.SortBy, params.SortOrder)
	page := paginateAnnotatedPayments(annotated, params.Page, params.Limit)

	return &portssvc.PaymentListing{
		Payments: page,
		Summary:  summary,
		Total:    len(annotated),
	}, nil
}

// sortAnnotatedPayments orders an annotated slice in place for display. Sort
// keys match the whitelisted list parameters; ties fall back to payment id so
// the ordering is stable across requests.
func sortAnnotatedPayments(payments []domain.AnnotatedPayment, sortBy, sortOrder string) {
	desc := sortOrder == "desc"
	less := func(a, b domain.AnnotatedPayment) bool {
		switch sortBy {
		case "amount":
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.LessThan(b.Amount)
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default: // payment_date
			if !a.PaymentDate.Equal(b.PaymentDate) {
				return a.PaymentDate.Before(b.PaymentDate)
			}
		}
		return a.PaymentID < b.PaymentID
	}
	sort.SliceStable(payments, func(i, j int) bool {
		if desc {
			return less(payments[j], payments[i])
		}
		return less(payments[i], payments[j])
	})
}

// paginateAnnotatedPayments slices one page out of the ordered set. Pages past
// the end yield an empty, non-nil slice.
func paginateAnnotatedPayments(payments []domain.AnnotatedPayment, page, limit int) []domain.AnnotatedPayment {
	start := (page - 1) * limit
	if start >= len(payments) {
		return []domain.AnnotatedPayment{}
	}
	end := start + limit
	if end > len(payments) {
		end = len(payments)
	}
	return payments[start:end]
}
