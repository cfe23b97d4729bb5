package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
//
// The canonical member set is active/paid/overdue/defaulted. Status changes
// are driven by the user; nothing in the backend flips a loan automatically.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusOverdue   LoanStatus = "overdue"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// PaymentSchedule describes the agreed repayment cadence.
type PaymentSchedule string

const (
	ScheduleOneTime   PaymentSchedule = "one-time"
	ScheduleDaily     PaymentSchedule = "daily"
	ScheduleWeekly    PaymentSchedule = "weekly"
	ScheduleBiWeekly  PaymentSchedule = "bi-weekly"
	ScheduleMonthly   PaymentSchedule = "monthly"
	ScheduleQuarterly PaymentSchedule = "quarterly"
	ScheduleYearly    PaymentSchedule = "yearly"
)

// Loan represents a loan made to a borrower.
//
// PrincipalAmount must be positive and InterestRate is a simple
// (non-compounding) percentage in [0,100]. Balances are never stored on the
// loan; they are derived from the payment set on every read.
type Loan struct {
	LoanID          string          `json:"loanID"`
	UserID          string          `json:"userID"`
	BorrowerName    string          `json:"borrowerName"`
	BorrowerEmail   string          `json:"borrowerEmail,omitempty"`
	BorrowerPhone   string          `json:"borrowerPhone,omitempty"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	DueDate         time.Time       `json:"dueDate"`
	PaymentSchedule PaymentSchedule `json:"paymentSchedule"`
	Status          LoanStatus      `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	AuditFields
}

// LoanSummary is the derived balance view of a loan, recomputed on read.
type LoanSummary struct {
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	TotalPayoff     decimal.Decimal `json:"totalPayoff"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PaymentCount    int             `json:"paymentCount"`
	PercentComplete decimal.Decimal `json:"percentComplete"`
}

// ValidLoanStatus reports whether s is one of the canonical status values.
func ValidLoanStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusActive, LoanStatusPaid, LoanStatusOverdue, LoanStatusDefaulted:
		return true
	}
	return false
}

// ValidPaymentSchedule reports whether p is a known schedule value.
func ValidPaymentSchedule(p PaymentSchedule) bool {
	switch p {
	case ScheduleOneTime, ScheduleDaily, ScheduleWeekly, ScheduleBiWeekly,
		ScheduleMonthly, ScheduleQuarterly, ScheduleYearly:
		return true
	}
	return false
}
