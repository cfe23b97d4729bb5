package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the database representation of a payment row.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	LoanID        string          `db:"loan_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	PaymentMethod sql.NullString  `db:"payment_method"`
	Notes         sql.NullString  `db:"notes"`
	AuditFields
}
