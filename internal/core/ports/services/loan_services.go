package services

import (
	"context"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
)

// LoanReaderSvc defines read operations for loans. Every method takes the
// requesting user's ID; loans owned by other users answer ErrNotFound.
type LoanReaderSvc interface {
	// GetLoanByID retrieves a loan owned by the user.
	GetLoanByID(ctx context.Context, userID string, loanID string) (*domain.Loan, error)

	// GetLoanWithSummary retrieves a loan and its derived balance summary.
	GetLoanWithSummary(ctx context.Context, userID string, loanID string) (*domain.Loan, *domain.LoanSummary, error)

	// ListLoans retrieves one filtered/sorted page of the user's loans plus
	// the total match count.
	ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) ([]domain.Loan, int, error)
}

// LoanWriterSvc defines write operations for loans
type LoanWriterSvc interface {
	// CreateLoan records a new loan for the user.
	CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error)

	// UpdateLoan updates a loan owned by the user.
	UpdateLoan(ctx context.Context, userID string, loanID string, req dto.UpdateLoanRequest) (*domain.Loan, error)

	// DeleteLoan removes a loan owned by the user together with its payments.
	DeleteLoan(ctx context.Context, userID string, loanID string) error
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}
