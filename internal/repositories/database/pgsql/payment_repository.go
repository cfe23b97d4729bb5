package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	"github.com/lendtrack/lendtrack_backend/internal/models"
)

type PgxPaymentRepository struct {
	db *pgxpool.Pool
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{db: db}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func toModelPayment(d domain.Payment) models.Payment {
	m := models.Payment{
		PaymentID:   d.PaymentID,
		LoanID:      d.LoanID,
		Amount:      d.Amount,
		PaymentDate: d.PaymentDate,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.PaymentMethod != "" {
		m.PaymentMethod = sql.NullString{String: string(d.PaymentMethod), Valid: true}
	}
	if d.Notes != "" {
		m.Notes = sql.NullString{String: d.Notes, Valid: true}
	}
	return m
}

func toDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		LoanID:        m.LoanID,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod.String),
		Notes:         m.Notes.String,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

const paymentColumns = `payment_id, loan_id, amount, payment_date, payment_method, notes,
		created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.LoanID,
		&m.Amount,
		&m.PaymentDate,
		&m.PaymentMethod,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan payment row: %w", err)
	}
	d := toDomainPayment(m)
	return &d, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := toModelPayment(payment)
	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.db.Exec(ctx, query,
		m.PaymentID,
		m.LoanID,
		m.Amount,
		m.PaymentDate,
		m.PaymentMethod,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	return scanPayment(r.db.QueryRow(ctx, query, paymentID))
}

// FindPaymentsByLoanID returns the loan's full payment set ordered by
// payment date, then created_at, then payment id. Balance derivation depends
// on this ordering being stable.
func (r *PgxPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date ASC, created_at ASC, payment_id ASC;
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while reading payment rows: %w", err)
	}

	return payments, nil
}

func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	m := toModelPayment(payment)
	query := `
		UPDATE payments
		SET amount = $2, payment_date = $3, payment_method = $4, notes = $5, updated_at = $6
		WHERE payment_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.PaymentID,
		m.Amount,
		m.PaymentDate,
		m.PaymentMethod,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
