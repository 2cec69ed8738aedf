package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a recorded settlement.
type SettlementStatus string

const (
	// SettlementPending means the payment has been proposed or promised but
	// not confirmed. Pending settlements do not affect balances.
	SettlementPending SettlementStatus = "pending"
	// SettlementSettled means the payment was confirmed by the recipient.
	// Only settled settlements feed the balance aggregator.
	SettlementSettled SettlementStatus = "settled"
)

// Settlement represents a direct payment between group members, made outside
// the expense ledger to clear debts. Immutable once settled.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"from_user_id"`

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string `json:"to_user_id"`

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal `json:"amount"`

	// Status is pending until the payment is confirmed.
	Status SettlementStatus `json:"status"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// SettledAt is the Unix timestamp when the payment was confirmed.
	// Zero while pending.
	SettledAt int64 `json:"settled_at,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by"`
}
