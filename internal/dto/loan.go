package dto

import (
	"time"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for calendar dates (due dates, payment dates).
const DateFormat = "2006-01-02"

// CreateLoanRequest defines the data needed to record a new loan.
// Amount and rate bounds are enforced by binding validators; the service
// re-checks them before any arithmetic.
type CreateLoanRequest struct {
	BorrowerName    string                 `json:"borrower_name" binding:"required,max=255"`
	BorrowerEmail   string                 `json:"borrower_email" binding:"omitempty,email"`
	BorrowerPhone   string                 `json:"borrower_phone" binding:"omitempty,max=50"`
	PrincipalAmount decimal.Decimal        `json:"principal_amount" binding:"required,gt=0"`
	InterestRate    decimal.Decimal        `json:"interest_rate" binding:"gte=0,lte=100"`
	DueDate         string                 `json:"due_date" binding:"required,datetime=2006-01-02"`
	PaymentSchedule domain.PaymentSchedule `json:"payment_schedule" binding:"required,oneof=one-time daily weekly bi-weekly monthly quarterly yearly"`
	Status          domain.LoanStatus      `json:"status" binding:"omitempty,oneof=active paid overdue defaulted"`
	Notes           string                 `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateLoanRequest defines the fields that may be changed on a loan.
// Pointers distinguish "not provided" from zero-value updates.
type UpdateLoanRequest struct {
	BorrowerName    *string                 `json:"borrower_name" binding:"omitempty,max=255"`
	BorrowerEmail   *string                 `json:"borrower_email" binding:"omitempty,email"`
	BorrowerPhone   *string                 `json:"borrower_phone" binding:"omitempty,max=50"`
	PrincipalAmount *decimal.Decimal        `json:"principal_amount" binding:"omitempty,gt=0"`
	InterestRate    *decimal.Decimal        `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	DueDate         *string                 `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentSchedule *domain.PaymentSchedule `json:"payment_schedule" binding:"omitempty,oneof=one-time daily weekly bi-weekly monthly quarterly yearly"`
	Status          *domain.LoanStatus      `json:"status" binding:"omitempty,oneof=active paid overdue defaulted"`
	Notes           *string                 `json:"notes" binding:"omitempty,max=1000"`
}

// ListLoansParams defines query parameters for the loan listing.
type ListLoansParams struct {
	Status          string `form:"status" binding:"omitempty,oneof=active paid overdue defaulted"`
	PaymentSchedule string `form:"payment_schedule" binding:"omitempty,oneof=one-time daily weekly bi-weekly monthly quarterly yearly"`
	Search          string `form:"search"`
	SortBy          string `form:"sort_by" binding:"omitempty,oneof=created_at due_date principal_amount borrower_name"`
	SortOrder       string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in the documented defaults for absent parameters.
func (p *ListLoansParams) Normalize() {
	if p.SortBy == "" {
		p.SortBy = "created_at"
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

// Offset returns the row offset for the normalized page/limit pair.
func (p *ListLoansParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// LoanResponse is the wire representation of a loan.
type LoanResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	BorrowerName    string          `json:"borrower_name"`
	BorrowerEmail   string          `json:"borrower_email,omitempty"`
	BorrowerPhone   string          `json:"borrower_phone,omitempty"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	DueDate         string          `json:"due_date"`
	PaymentSchedule string          `json:"payment_schedule"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LoanSummaryResponse carries the derived balance fields of a loan.
// Never persisted; recomputed on every read.
type LoanSummaryResponse struct {
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPayoff     decimal.Decimal `json:"total_payoff"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentCount    int             `json:"payment_count"`
	PercentComplete decimal.Decimal `json:"percent_complete"`
}

// LoanDetailResponse is a loan together with its derived summary.
type LoanDetailResponse struct {
	Loan    LoanResponse        `json:"loan"`
	Summary LoanSummaryResponse `json:"summary"`
}

// ListLoansResponse is one page of loans plus the pagination envelope.
type ListLoansResponse struct {
	Loans      []LoanResponse `json:"loans"`
	Pagination Pagination     `json:"pagination"`
}

// ToLoanResponse converts a domain.Loan to its wire representation.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:              l.LoanID,
		UserID:          l.UserID,
		BorrowerName:    l.BorrowerName,
		BorrowerEmail:   l.BorrowerEmail,
		BorrowerPhone:   l.BorrowerPhone,
		PrincipalAmount: l.PrincipalAmount,
		InterestRate:    l.InterestRate,
		DueDate:         l.DueDate.Format(DateFormat),
		PaymentSchedule: string(l.PaymentSchedule),
		Status:          string(l.Status),
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// ToListLoansResponse converts a loan page and total count into the listing envelope.
func ToListLoansResponse(loans []domain.Loan, params ListLoansParams, total int) ListLoansResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i])
	}
	return ListLoansResponse{
		Loans:      res,
		Pagination: NewPagination(params.Page, params.Limit, total),
	}
}

// ToLoanSummaryResponse converts a domain summary to its wire representation.
func ToLoanSummaryResponse(s domain.LoanSummary) LoanSummaryResponse {
	return LoanSummaryResponse{
		TotalInterest:   s.TotalInterest,
		TotalPayoff:     s.TotalPayoff,
		TotalPaid:       s.TotalPaid,
		RemainingAmount: s.RemainingAmount,
		PaymentCount:    s.PaymentCount,
		PercentComplete: s.PercentComplete,
	}
}
