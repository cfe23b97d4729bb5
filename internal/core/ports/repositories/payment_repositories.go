package repositories

import (
	"context"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its ID.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentsByLoanID retrieves every payment recorded against a loan.
	// Balance derivation always needs the full set, so this is not paginated.
	FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a new payment.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePayment updates an existing payment's details. LoanID is immutable.
	UpdatePayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
