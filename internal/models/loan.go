package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the database representation of a loan row.
// Nullable borrower contact fields use sql null types; the domain layer maps
// them to plain strings.
type Loan struct {
	LoanID          string          `db:"loan_id"`
	UserID          string          `db:"user_id"`
	BorrowerName    string          `db:"borrower_name"`
	BorrowerEmail   sql.NullString  `db:"borrower_email"`
	BorrowerPhone   sql.NullString  `db:"borrower_phone"`
	PrincipalAmount decimal.Decimal `db:"principal_amount"`
	InterestRate    decimal.Decimal `db:"interest_rate"`
	DueDate         time.Time       `db:"due_date"`
	PaymentSchedule string          `db:"payment_schedule"`
	Status          string          `db:"status"`
	Notes           sql.NullString  `db:"notes"`
	AuditFields
}
