package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/models"
)

// accumulator folds signed contributions per user while remembering the order
// users were first seen. The order matters: the optimizer's sort is stable,
// so first-seen order is the tie-break for equal amounts and keeps the plan
// deterministic across calls.
type accumulator struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newAccumulator() *accumulator {
	return &accumulator{totals: make(map[string]decimal.Decimal)}
}

func (a *accumulator) add(userID string, amount decimal.Decimal) {
	current, seen := a.totals[userID]
	if !seen {
		a.order = append(a.order, userID)
	}
	a.totals[userID] = current.Add(amount)
}

func (a *accumulator) balances() []models.Balance {
	balances := make([]models.Balance, len(a.order))
	for i, userID := range a.order {
		// Round once at the end, not per contribution, so intermediate
		// rounding cannot accumulate drift.
		balances[i] = models.Balance{UserID: userID, Amount: a.totals[userID].Round(2)}
	}
	return balances
}

// CalculateBalances folds expenses, participant shares, and settled transfers
// into one signed net balance per member:
//
//   - each expense credits its payer with the full amount (they fronted it)
//   - each share debits its participant (they owe their portion)
//   - each settled transfer credits the sender (their debt is already paid)
//     and debits the receiver (the amount owed to them has been collected)
//
// For a closed group the returned balances sum to zero within Epsilon. The
// aggregator has no membership oracle, so it raises no error on partial
// input; CalculateSettlements checks the conservation invariant instead.
func CalculateBalances(expenses []models.Expense, shares []models.ParticipantShare, settled []models.Settlement) []models.Balance {
	acc := newAccumulator()

	for _, e := range expenses {
		acc.add(e.PaidBy, e.Amount)
	}
	for _, s := range shares {
		acc.add(s.UserID, s.AmountOwed.Neg())
	}
	for _, t := range settled {
		acc.add(t.FromUserID, t.Amount)
		acc.add(t.ToUserID, t.Amount.Neg())
	}

	return acc.balances()
}
