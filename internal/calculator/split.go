// Package calculator implements the ledger & settlement engine: pure,
// stateless computations that split expenses into participant shares, fold a
// group ledger into per-member net balances, and reduce those balances to a
// short list of pairwise payments.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/models"
)

var hundred = decimal.NewFromInt(100)

// SplitParams carries the per-participant inputs for the non-equal split
// methods. Participants missing from the relevant map default to zero.
type SplitParams struct {
	// Percentages maps user ID to percentage for models.SplitPercentage.
	Percentages map[string]decimal.Decimal
	// Amounts maps user ID to explicit amount for models.SplitCustom.
	Amounts map[string]decimal.Decimal
}

// CalculateShares computes each participant's owed portion of an expense.
// The returned shares always sum to total exactly for the equal method, and
// within Epsilon for percentage and custom splits. ExpenseID is left empty;
// the caller stamps it once the expense has an ID.
func CalculateShares(total decimal.Decimal, method models.SplitMethod, participants []string, params SplitParams) ([]models.ParticipantShare, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive, got %s", ErrInvalidSplit, total)
	}

	switch method {
	case models.SplitEqual:
		return equalShares(total, participants), nil
	case models.SplitPercentage:
		return percentageShares(total, participants, params.Percentages)
	case models.SplitCustom:
		return customShares(total, participants, params.Amounts)
	default:
		return nil, fmt.Errorf("%w: unknown split method %q", ErrInvalidSplit, method)
	}
}

// equalShares divides total evenly, rounded to the cent. Any sub-cent
// remainder goes to the first participant so the shares sum to total exactly.
func equalShares(total decimal.Decimal, participants []string) []models.ParticipantShare {
	n := decimal.NewFromInt(int64(len(participants)))
	per := total.DivRound(n, 2)

	shares := make([]models.ParticipantShare, len(participants))
	for i, userID := range participants {
		shares[i] = models.ParticipantShare{UserID: userID, AmountOwed: per}
	}
	shares[0].AmountOwed = total.Sub(per.Mul(n.Sub(decimal.NewFromInt(1))))
	return shares
}

// percentageShares apportions total by caller-supplied percentages, which
// must each be non-negative and sum to 100 within Epsilon.
func percentageShares(total decimal.Decimal, participants []string, percentages map[string]decimal.Decimal) ([]models.ParticipantShare, error) {
	sum := decimal.Zero
	for _, userID := range participants {
		pct := percentages[userID]
		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: negative percentage %s for %s", ErrInvalidSplit, pct, userID)
		}
		sum = sum.Add(pct)
	}
	if sum.Sub(hundred).Abs().GreaterThan(Epsilon) {
		return nil, fmt.Errorf("%w: percentages sum to %s, want 100", ErrInvalidSplit, sum)
	}

	shares := make([]models.ParticipantShare, len(participants))
	for i, userID := range participants {
		shares[i] = models.ParticipantShare{
			UserID:     userID,
			AmountOwed: total.Mul(percentages[userID]).Div(hundred).Round(2),
		}
	}
	return shares, nil
}

// customShares uses explicit amounts, which must sum to total within Epsilon.
func customShares(total decimal.Decimal, participants []string, amounts map[string]decimal.Decimal) ([]models.ParticipantShare, error) {
	sum := decimal.Zero
	for _, userID := range participants {
		owed := amounts[userID]
		if owed.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount %s for %s", ErrInvalidSplit, owed, userID)
		}
		sum = sum.Add(owed)
	}
	if sum.Sub(total).Abs().GreaterThan(Epsilon) {
		return nil, fmt.Errorf("%w: amounts sum to %s, want %s", ErrInvalidSplit, sum, total)
	}

	shares := make([]models.ParticipantShare, len(participants))
	for i, userID := range participants {
		shares[i] = models.ParticipantShare{UserID: userID, AmountOwed: amounts[userID].Round(2)}
	}
	return shares, nil
}
