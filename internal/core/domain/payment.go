package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made. Optional on a payment.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "cash"
	MethodCheck         PaymentMethod = "check"
	MethodBankTransfer  PaymentMethod = "bank_transfer"
	MethodMobilePayment PaymentMethod = "mobile_payment"
	MethodOther         PaymentMethod = "other"
)

// Payment is a single repayment recorded against a loan.
//
// Amount must be positive and PaymentDate must not be in the future.
// LoanID is immutable after creation; amount, date, method and notes may be
// edited, and payments may be deleted, after which every reader recomputes
// the owning loan's derived balance.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}

// ValidPaymentMethod reports whether m is a known method value.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCheck, MethodBankTransfer, MethodMobilePayment, MethodOther:
		return true
	}
	return false
}
