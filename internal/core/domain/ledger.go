package domain

import "github.com/shopspring/decimal"

// AnnotatedPayment is a payment carrying the loan balance immediately after
// it was applied. The balance is the display value, clamped at zero; it is
// derived on read and never persisted.
type AnnotatedPayment struct {
	Payment
	RunningBalance decimal.Decimal `json:"runningBalance"`
}
