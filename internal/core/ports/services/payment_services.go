package services

import (
	"context"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
)

// PaymentListing is one display page of a loan's payment ledger together with
// the aggregate summary. The summary and the running balances are always
// derived from the loan's full payment set; only the page slice honors the
// pagination parameters.
type PaymentListing struct {
	Payments []domain.AnnotatedPayment
	Summary  domain.LoanSummary
	Total    int
}

// PaymentReaderSvc defines read operations for a loan's payments. All access
// is scoped to the requesting user via loan ownership.
type PaymentReaderSvc interface {
	// ListPayments retrieves an annotated page of a loan's payments.
	ListPayments(ctx context.Context, userID string, loanID string, params dto.ListPaymentsParams) (*PaymentListing, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// RecordPayment records a new payment against a loan owned by the user.
	RecordPayment(ctx context.Context, userID string, loanID string, req dto.CreatePaymentRequest) (*domain.Payment, error)

	// UpdatePayment updates a payment on a loan owned by the user.
	UpdatePayment(ctx context.Context, userID string, loanID string, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error)

	// DeletePayment removes a payment from a loan owned by the user.
	DeletePayment(ctx context.Context, userID string, loanID string, paymentID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
