package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/models"
)

// OptimizeSettlements reduces a set of net balances to an ordered list of
// pairwise transfers that zeroes every balance.
//
// Greedy bipartite netting: balances within Epsilon of zero are dropped,
// debtors are sorted largest-debt-first and creditors largest-credit-first
// (stable, so equal amounts keep input order), then a two-pointer scan
// repeatedly settles min(debt, credit) between the current pair. Each step
// exhausts at least one side, so the plan has at most
// min(debtors, creditors) <= n-1 transfers for n non-zero balances.
//
// This is not a minimum-cardinality solution to the general netting problem
// (that is NP-hard); it trades optimality for a deterministic linear scan.
//
// If one list retains a balance beyond Epsilon after the other is exhausted,
// the input violated conservation and ErrConservationViolation is returned
// rather than silently dropping the residual.
func OptimizeSettlements(balances []models.Balance) ([]models.Transfer, error) {
	var debtors, creditors []models.Balance
	for _, b := range balances {
		switch {
		case b.Amount.LessThan(Epsilon.Neg()):
			debtors = append(debtors, b)
		case b.Amount.GreaterThan(Epsilon):
			creditors = append(creditors, b)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Amount.LessThan(debtors[j].Amount)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Amount.GreaterThan(creditors[j].Amount)
	})

	var plan []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debt := debtors[i].Amount.Neg()
		credit := creditors[j].Amount
		amount := decimal.Min(debt, credit)

		plan = append(plan, models.Transfer{
			From:   debtors[i].UserID,
			To:     creditors[j].UserID,
			Amount: amount.Round(2),
		})

		debtors[i].Amount = debtors[i].Amount.Add(amount)
		creditors[j].Amount = creditors[j].Amount.Sub(amount)

		// A transfer that exactly exhausts both sides advances both cursors.
		if debtors[i].Amount.Abs().LessThan(Epsilon) {
			i++
		}
		if creditors[j].Amount.Abs().LessThan(Epsilon) {
			j++
		}
	}

	for ; i < len(debtors); i++ {
		if debtors[i].Amount.Abs().GreaterThan(Epsilon) {
			return nil, fmt.Errorf("%w: debtor %s left with %s and no creditors remaining",
				ErrConservationViolation, debtors[i].UserID, debtors[i].Amount)
		}
	}
	for ; j < len(creditors); j++ {
		if creditors[j].Amount.Abs().GreaterThan(Epsilon) {
			return nil, fmt.Errorf("%w: creditor %s left with %s and no debtors remaining",
				ErrConservationViolation, creditors[j].UserID, creditors[j].Amount)
		}
	}

	return plan, nil
}
