package dto

import (
	"time"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a payment on a loan.
type CreatePaymentRequest struct {
	Amount        decimal.Decimal      `json:"amount" binding:"required,gt=0"`
	PaymentDate   string               `json:"payment_date" binding:"required,datetime=2006-01-02"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash check bank_transfer mobile_payment other"`
	Notes         string               `json:"notes" binding:"omitempty,max=1000"`
}

// UpdatePaymentRequest defines the fields that may be changed on a payment.
// The owning loan is immutable; there is deliberately no loan_id field here.
type UpdatePaymentRequest struct {
	Amount        *decimal.Decimal      `json:"amount" binding:"omitempty,gt=0"`
	PaymentDate   *string               `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod *domain.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash check bank_transfer mobile_payment other"`
	Notes         *string               `json:"notes" binding:"omitempty,max=1000"`
}

// ListPaymentsParams defines query parameters for the payment listing of one loan.
type ListPaymentsParams struct {
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=payment_date amount created_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in the documented defaults: payment_date descending,
// first page of ten.
func (p *ListPaymentsParams) Normalize() {
	if p.SortBy == "" {
		p.SortBy = "payment_date"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// PaymentResponse is the wire representation of a payment. RunningBalance is
// present only on annotated listings and is the display-clamped balance of
// the loan immediately after this payment.
type PaymentResponse struct {
	ID             string           `json:"id"`
	LoanID         string           `json:"loan_id"`
	Amount         decimal.Decimal  `json:"amount"`
	PaymentDate    string           `json:"payment_date"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	RunningBalance *decimal.Decimal `json:"running_balance,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// PaymentSummaryResponse is the aggregate footer of a payment listing,
// always computed over the loan's full payment set regardless of pagination.
type PaymentSummaryResponse struct {
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentCount     int             `json:"payment_count"`
}

// ListPaymentsResponse is one page of annotated payments plus summary and
// pagination envelopes.
type ListPaymentsResponse struct {
	Payments   []PaymentResponse      `json:"payments"`
	Summary    PaymentSummaryResponse `json:"summary"`
	Pagination Pagination             `json:"pagination"`
}

// ToPaymentResponse converts a domain.Payment to its wire representation.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.PaymentID,
		LoanID:        p.LoanID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format(DateFormat),
		PaymentMethod: string(p.PaymentMethod),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
