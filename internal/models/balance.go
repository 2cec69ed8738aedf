package models

import "github.com/shopspring/decimal"

// Balance is a member's signed net position, derived from the group ledger.
// Positive = the group owes this user money; negative = the user owes the
// group. Balances are computed fresh on every request and never persisted.
type Balance struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Transfer is one entry of a settlement plan: a recommended payment from one
// member to another. Transfers are recommendations only; a transfer becomes a
// Settlement row once the payer confirms it.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}
