package repositories

import (
	"context"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
)

// LoanListFilter carries the normalized filter/sort/page parameters for a
// loan listing query. SortBy/SortOrder hold whitelisted values only; the
// repository maps them to columns, never interpolating caller input.
type LoanListFilter struct {
	Status          string
	PaymentSchedule string
	Search          string
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its ID.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves one page of a user's loans matching the filter,
	// plus the total match count before pagination.
	ListLoans(ctx context.Context, userID string, filter LoanListFilter) ([]domain.Loan, int, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan updates an existing loan's details.
	UpdateLoan(ctx context.Context, loan domain.Loan) error

	// DeleteLoan removes a loan and all of its payments in one transaction.
	DeleteLoan(ctx context.Context, loanID string) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
