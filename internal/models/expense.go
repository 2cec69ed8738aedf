package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitMethod is the rule used to apportion one expense among participants.
type SplitMethod string

const (
	// SplitEqual divides the amount evenly across all participants.
	SplitEqual SplitMethod = "equal"
	// SplitPercentage gives each participant a caller-supplied percentage.
	SplitPercentage SplitMethod = "percentage"
	// SplitCustom uses explicit per-participant amounts.
	SplitCustom SplitMethod = "custom"
)

// ParseSplitMethod validates a raw split method string.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch m := SplitMethod(s); m {
	case SplitEqual, SplitPercentage, SplitCustom:
		return m, nil
	default:
		return "", fmt.Errorf("unknown split method %q", s)
	}
}

// Expense represents money fronted by one group member on behalf of several.
// Immutable once created; owned by the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// Description is a short human-readable label (e.g. "Groceries").
	Description string `json:"description"`

	// Category is a free-form category id (e.g. "food", "travel").
	Category string `json:"category,omitempty"`

	// Amount is the full expense amount. Always positive.
	Amount decimal.Decimal `json:"amount"`

	// PaidBy is the user ID of the member who fronted the money.
	PaidBy string `json:"paid_by"`

	// SplitMethod records how the amount was apportioned.
	SplitMethod SplitMethod `json:"split_method"`

	// ExpenseDate is the date the expense occurred, as YYYY-MM-DD.
	ExpenseDate string `json:"expense_date,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// ParticipantShare is one member's portion of one expense.
// The shares of an expense always reconcile to its amount within one cent;
// this is enforced when the shares are computed, and trusted afterwards.
type ParticipantShare struct {
	// ExpenseID is the expense this share belongs to.
	ExpenseID string `json:"expense_id"`

	// UserID is the member who owes this portion.
	UserID string `json:"user_id"`

	// AmountOwed is the portion owed. Never negative.
	AmountOwed decimal.Decimal `json:"amount_owed"`
}
