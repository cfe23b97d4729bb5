package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	"github.com/lendtrack/lendtrack_backend/internal/models"
)

// loanSortColumns maps the whitelisted sort keys to their columns. Anything
// not in this map falls back to created_at.
var loanSortColumns = map[string]string{
	"created_at":       "created_at",
	"due_date":         "due_date",
	"principal_amount": "principal_amount",
	"borrower_name":    "borrower_name",
}

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(db *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func toModelLoan(d domain.Loan) models.Loan {
	m := models.Loan{
		LoanID:          d.LoanID,
		UserID:          d.UserID,
		BorrowerName:    d.BorrowerName,
		PrincipalAmount: d.PrincipalAmount,
		InterestRate:    d.InterestRate,
		DueDate:         d.DueDate,
		PaymentSchedule: string(d.PaymentSchedule),
		Status:          string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.BorrowerEmail != "" {
		m.BorrowerEmail = sql.NullString{String: d.BorrowerEmail, Valid: true}
	}
	if d.BorrowerPhone != "" {
		m.BorrowerPhone = sql.NullString{String: d.BorrowerPhone, Valid: true}
	}
	if d.Notes != "" {
		m.Notes = sql.NullString{String: d.Notes, Valid: true}
	}
	return m
}

func toDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:          m.LoanID,
		UserID:          m.UserID,
		BorrowerName:    m.BorrowerName,
		BorrowerEmail:   m.BorrowerEmail.String,
		BorrowerPhone:   m.BorrowerPhone.String,
		PrincipalAmount: m.PrincipalAmount,
		InterestRate:    m.InterestRate,
		DueDate:         m.DueDate,
		PaymentSchedule: domain.PaymentSchedule(m.PaymentSchedule),
		Status:          domain.LoanStatus(m.Status),
		Notes:           m.Notes.String,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

const loanColumns = `loan_id, user_id, borrower_name, borrower_email, borrower_phone,
		principal_amount, interest_rate, due_date, payment_schedule, status, notes,
		created_at, updated_at`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.UserID,
		&m.BorrowerName,
		&m.BorrowerEmail,
		&m.BorrowerPhone,
		&m.PrincipalAmount,
		&m.InterestRate,
		&m.DueDate,
		&m.PaymentSchedule,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan loan row: %w", err)
	}
	d := toDomainLoan(m)
	return &d, nil
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := toModelLoan(loan)
	query := `
        INSERT INTO loans (` + loanColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.UserID,
		m.BorrowerName,
		m.BorrowerEmail,
		m.BorrowerPhone,
		m.PrincipalAmount,
		m.InterestRate,
		m.DueDate,
		m.PaymentSchedule,
		m.Status,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	return scanLoan(r.Pool.QueryRow(ctx, query, loanID))
}

func (r *PgxLoanRepository) ListLoans(ctx context.Context, userID string, filter portsrepo.LoanListFilter) ([]domain.Loan, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PaymentSchedule != "" {
		args = append(args, filter.PaymentSchedule)
		conditions = append(conditions, fmt.Sprintf("payment_schedule = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(borrower_name ILIKE $%d OR borrower_email ILIKE $%d OR borrower_phone ILIKE $%d)", n, n, n))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM loans WHERE ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	sortColumn, ok := loanSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT `+loanColumns+` FROM loans WHERE %s ORDER BY %s %s, loan_id ASC LIMIT $%d OFFSET $%d;`,
		where, sortColumn, direction, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed while reading loan rows: %w", err)
	}

	return loans, total, nil
}

func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	m := toModelLoan(loan)
	query := `
		UPDATE loans
		SET borrower_name = $2, borrower_email = $3, borrower_phone = $4,
		    principal_amount = $5, interest_rate = $6, due_date = $7,
		    payment_schedule = $8, status = $9, notes = $10, updated_at = $11
		WHERE loan_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.BorrowerName,
		m.BorrowerEmail,
		m.BorrowerPhone,
		m.PrincipalAmount,
		m.InterestRate,
		m.DueDate,
		m.PaymentSchedule,
		m.Status,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLoan removes a loan and all of its payments in one transaction, so a
// failure partway through leaves both tables untouched.
func (r *PgxLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE loan_id = $1;`, loanID); err != nil {
		return fmt.Errorf("failed to delete payments for loan %s: %w", loanID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM loans WHERE loan_id = $1;`, loanID)
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
