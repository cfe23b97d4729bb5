// Package accounting holds the pure balance arithmetic for loans. Every
// function here is side-effect free and works on shopspring decimals so
// currency values never touch binary floats.
package accounting

import (
	"fmt"
	"sort"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeInterest returns the simple (non-compounding) interest and the total
// payoff for a loan: interest = principal * rate/100, payoff = principal + interest.
// A negative principal or a rate outside [0,100] is an error. A zero principal
// yields a zero payoff; percent computations must treat that as zero progress
// instead of dividing by it.
func ComputeInterest(principal, rate decimal.Decimal) (totalInterest, totalPayoff decimal.Decimal, err error) {
	if principal.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("principal amount must not be negative, got %s", principal.String())
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("interest rate must be between 0 and 100, got %s", rate.String())
	}

	totalInterest = principal.Mul(rate).Div(hundred)
	totalPayoff = principal.Add(totalInterest)
	return totalInterest, totalPayoff, nil
}

// SortPaymentsChronological returns a new slice holding the payments in
// ascending order of payment date. Same-day payments are ordered by creation
// time, then by payment ID, so the ordering is fully deterministic regardless
// of input order. The input slice is not modified.
func SortPaymentsChronological(payments []domain.Payment) []domain.Payment {
	ordered := make([]domain.Payment, len(payments))
	copy(ordered, payments)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PaymentDate.Equal(ordered[j].PaymentDate) {
			return ordered[i].PaymentDate.Before(ordered[j].PaymentDate)
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].PaymentID < ordered[j].PaymentID
	})
	return ordered
}

// RunningBalances folds the ordered payment sequence over the total payoff and
// returns the balance after each payment, index-aligned with the input.
//
// Payments must already be in chronological ascending order (see
// SortPaymentsChronological). Intermediate balances are never clamped: when a
// loan is overpaid the running total goes negative and stays negative, so the
// decrements always conserve the paid total. Clamping at zero is a display
// concern applied once, at the edge.
func RunningBalances(totalPayoff decimal.Decimal, ordered []domain.Payment) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(ordered))
	running := totalPayoff
	for i, p := range ordered {
		running = running.Sub(p.Amount)
		balances[i] = running
	}
	return balances
}

// Summarize computes the derived balance view of a loan from its full payment
// set. The aggregates are order-independent: total paid is a plain sum, the
// remaining amount is clamped at zero, and percent complete is clamped to
// [0,100] and rounded to two places. A degenerate payoff of zero yields zero
// percent rather than dividing by zero.
func Summarize(loan domain.Loan, payments []domain.Payment) (domain.LoanSummary, error) {
	totalInterest, totalPayoff, err := ComputeInterest(loan.PrincipalAmount, loan.InterestRate)
	if err != nil {
		return domain.LoanSummary{}, fmt.Errorf("cannot summarize loan %s: %w", loan.LoanID, err)
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return domain.LoanSummary{}, fmt.Errorf("payment %s has non-positive amount %s", p.PaymentID, p.Amount.String())
		}
		totalPaid = totalPaid.Add(p.Amount)
	}

	remaining := totalPayoff.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := decimal.Zero
	if totalPayoff.IsPositive() {
		percent = totalPaid.Div(totalPayoff).Mul(hundred)
		if percent.GreaterThan(hundred) {
			percent = hundred
		}
	}

	return domain.LoanSummary{
		TotalInterest:   totalInterest,
		TotalPayoff:     totalPayoff,
		TotalPaid:       totalPaid,
		RemainingAmount: remaining,
		PaymentCount:    len(payments),
		PercentComplete: percent.Round(2),
	}, nil
}

// DisplayBalance clamps a running balance at zero for presentation. The
// unclamped value must still be used for any subsequent subtraction.
func DisplayBalance(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
