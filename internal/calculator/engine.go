package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/models"
)

// Snapshot is a read of one group's ledger at a point in time: expenses,
// their participant shares, and settlements that have been confirmed.
// All amounts share one currency. The engine never mutates storage; staleness
// of the snapshot is the caller's concern.
type Snapshot struct {
	Expenses []models.Expense
	Shares   []models.ParticipantShare
	Settled  []models.Settlement
}

// Result packages the two outputs of a settlement calculation.
type Result struct {
	Balances []models.Balance  `json:"balances"`
	Plan     []models.Transfer `json:"settlements"`
}

// CalculateSettlements derives net balances from the snapshot and computes a
// transfer plan that zeroes them. It is pure and idempotent: the same
// snapshot always produces the same result.
//
// An empty snapshot returns ErrEmptyLedger. If the derived balances fail the
// conservation invariant (sum != 0 within Epsilon), the balances are still
// returned alongside ErrConservationViolation, but no plan is produced; a
// plan built from a non-closed ledger would look valid while moving the
// wrong amounts.
func CalculateSettlements(snap Snapshot) (*Result, error) {
	if len(snap.Expenses) == 0 && len(snap.Settled) == 0 {
		return nil, ErrEmptyLedger
	}

	balances := CalculateBalances(snap.Expenses, snap.Shares, snap.Settled)

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Amount)
	}
	if sum.Abs().GreaterThan(Epsilon) {
		return &Result{Balances: balances}, fmt.Errorf("%w: sum is %s", ErrConservationViolation, sum)
	}

	plan, err := OptimizeSettlements(balances)
	if err != nil {
		return &Result{Balances: balances}, err
	}

	return &Result{Balances: balances, Plan: plan}, nil
}
