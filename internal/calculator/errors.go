package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Epsilon is the reconciliation tolerance: amounts within one cent of each
// other are considered equal throughout the engine.
var Epsilon = decimal.New(1, -2)

var (
	// ErrInvalidSplit means the computed or supplied shares do not reconcile
	// to the expense total (or percentages do not sum to 100).
	ErrInvalidSplit = errors.New("shares do not sum to total")

	// ErrEmptyParticipants means zero participants were selected for a split.
	ErrEmptyParticipants = errors.New("at least one participant required")

	// ErrEmptyLedger means a settlement calculation was requested for a
	// ledger with no expenses and no settlements.
	ErrEmptyLedger = errors.New("ledger snapshot is empty")

	// ErrConservationViolation means the input balances do not sum to zero
	// within Epsilon. This is never user-correctable: it signals that the
	// caller assembled a partial or inconsistent ledger (missing shares,
	// partial group membership), not that the engine failed.
	ErrConservationViolation = errors.New("balances do not sum to zero")
)
