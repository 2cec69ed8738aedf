package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/calculator"
	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/observability"
	"github.com/tmun/divvy/internal/storage"
)

// SettlementService wraps the settlement engine with ledger retrieval and
// settlement record persistence. The engine itself never touches storage:
// this service reads a snapshot, hands it to the engine, and records
// settlements only when a user confirms a payment.
type SettlementService struct {
	store   storage.Store
	groups  *GroupService
	metrics *observability.Metrics
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, groups *GroupService, metrics *observability.Metrics) *SettlementService {
	return &SettlementService{store: store, groups: groups, metrics: metrics}
}

// PlanResult is the settlement calculation as presented to callers. When the
// ledger fails the conservation invariant the balances are still shown but
// the plan is withheld, and PlanWithheld is set.
type PlanResult struct {
	Balances     []models.Balance  `json:"balances"`
	Plan         []models.Transfer `json:"settlements"`
	PlanWithheld bool              `json:"plan_withheld,omitempty"`
}

// Plan loads the group's ledger snapshot and computes balances plus a
// transfer plan. Stateless: every call recomputes from the full ledger, so
// the result reflects exactly what was stored at read time.
func (s *SettlementService) Plan(ctx context.Context, actorID, groupID string) (*PlanResult, error) {
	if _, err := s.groups.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	result, err := calculator.CalculateSettlements(snap)
	switch {
	case errors.Is(err, calculator.ErrEmptyLedger):
		return nil, err
	case errors.Is(err, calculator.ErrConservationViolation):
		// A data-integrity fault upstream, not a user error: report it,
		// show the raw balances, and withhold the plan rather than
		// presenting one built from a broken ledger.
		slog.Error("Conservation violation in group ledger", "group_id", groupID, "error", err)
		s.metrics.IncrConservationViolation()
		return &PlanResult{Balances: result.Balances, PlanWithheld: true}, nil
	case err != nil:
		return nil, err
	}

	s.metrics.RecordPlan(len(result.Plan))
	slog.Info("Settlement plan computed",
		"group_id", groupID,
		"balances", len(result.Balances),
		"transfers", len(result.Plan),
	)
	return &PlanResult{Balances: result.Balances, Plan: result.Plan}, nil
}

// loadSnapshot assembles the engine's input from storage: all expenses,
// their shares, and confirmed settlements for one group.
func (s *SettlementService) loadSnapshot(ctx context.Context, groupID string) (calculator.Snapshot, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return calculator.Snapshot{}, err
	}
	shares, err := s.store.ListSharesByGroup(ctx, groupID)
	if err != nil {
		return calculator.Snapshot{}, err
	}
	settled, err := s.store.ListSettledByGroup(ctx, groupID)
	if err != nil {
		return calculator.Snapshot{}, err
	}

	snap := calculator.Snapshot{
		Expenses: make([]models.Expense, len(expenses)),
		Shares:   shares,
		Settled:  make([]models.Settlement, len(settled)),
	}
	for i, e := range expenses {
		snap.Expenses[i] = *e
	}
	for i, t := range settled {
		snap.Settled[i] = *t
	}
	return snap, nil
}

// RecordSettlementInput carries a settlement to record.
type RecordSettlementInput struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
}

// Record persists a pending settlement. It does not affect balances until
// confirmed; a plan entry becomes real money only when someone marks it paid.
func (s *SettlementService) Record(ctx context.Context, actorID, groupID string, in RecordSettlementInput) (*models.Settlement, error) {
	group, err := s.groups.requireMember(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.FromUserID == in.ToUserID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidInput)
	}
	if !group.HasMember(in.FromUserID) || !group.HasMember(in.ToUserID) {
		return nil, fmt.Errorf("%w: both parties must be group members", ErrInvalidInput)
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Amount:     in.Amount.Round(2),
		Status:     models.SettlementPending,
		Note:       in.Note,
		CreatedBy:  actorID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"from", in.FromUserID,
		"to", in.ToUserID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// Confirm marks a pending settlement as settled. Only a party to the payment
// may confirm it. From then on the transfer counts against balances.
func (s *SettlementService) Confirm(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if actorID != settlement.FromUserID && actorID != settlement.ToUserID {
		return nil, fmt.Errorf("%w: only the payer or recipient can confirm", ErrInvalidInput)
	}

	settledAt := time.Now().Unix()
	if err := s.store.MarkSettlementSettled(ctx, settlementID, settledAt); err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementSettled
	settlement.SettledAt = settledAt
	slog.Info("Settlement confirmed", "settlement_id", settlementID, "by", actorID)
	return settlement, nil
}

// ListByGroup retrieves a group's settlement history, newest first.
func (s *SettlementService) ListByGroup(ctx context.Context, actorID, groupID string) ([]*models.Settlement, error) {
	if _, err := s.groups.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}
