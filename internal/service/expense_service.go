package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/calculator"
	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/storage"
)

// ExpenseService manages expenses and their participant shares.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, groups *GroupService) *ExpenseService {
	return &ExpenseService{store: store, groups: groups}
}

// CreateExpenseInput carries everything needed to record one expense.
type CreateExpenseInput struct {
	GroupID      string                     `json:"group_id"`
	Description  string                     `json:"description"`
	Category     string                     `json:"category"`
	Amount       decimal.Decimal            `json:"amount"`
	PaidBy       string                     `json:"paid_by"`
	SplitMethod  string                     `json:"split_method"`
	ExpenseDate  string                     `json:"expense_date"`
	Participants []string                   `json:"participants"`
	Percentages  map[string]decimal.Decimal `json:"percentages,omitempty"`
	Amounts      map[string]decimal.Decimal `json:"amounts,omitempty"`
}

// Create validates an expense, computes its participant shares, and persists
// both atomically. Shares are computed (and their reconciliation invariant
// enforced) here, at creation time; nothing downstream re-validates them.
func (s *ExpenseService) Create(ctx context.Context, actorID string, in CreateExpenseInput) (*models.Expense, []models.ParticipantShare, error) {
	group, err := s.groups.requireMember(ctx, actorID, in.GroupID)
	if err != nil {
		return nil, nil, err
	}

	if in.Description == "" {
		return nil, nil, fmt.Errorf("%w: description required", ErrInvalidInput)
	}
	// Round once, up front: shares and the stored amount must reconcile
	// against the same value.
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !group.HasMember(in.PaidBy) {
		return nil, nil, fmt.Errorf("%w: payer %s is not a group member", ErrInvalidInput, in.PaidBy)
	}
	for _, p := range in.Participants {
		if !group.HasMember(p) {
			return nil, nil, fmt.Errorf("%w: participant %s is not a group member", ErrInvalidInput, p)
		}
	}

	method, err := models.ParseSplitMethod(in.SplitMethod)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	shares, err := calculator.CalculateShares(amount, method, in.Participants, calculator.SplitParams{
		Percentages: in.Percentages,
		Amounts:     in.Amounts,
	})
	if err != nil {
		slog.Warn("Share calculation rejected", "group_id", in.GroupID, "error", err)
		return nil, nil, err
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		Description: in.Description,
		Category:    in.Category,
		Amount:      amount,
		PaidBy:      in.PaidBy,
		SplitMethod: method,
		ExpenseDate: in.ExpenseDate,
	}
	if err := s.store.CreateExpense(ctx, expense, shares); err != nil {
		return nil, nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"split_method", method,
		"participants", len(shares),
	)
	return expense, shares, nil
}

// Get retrieves an expense with its shares; only group members may see it.
func (s *ExpenseService) Get(ctx context.Context, actorID, expenseID string) (*models.Expense, []models.ParticipantShare, error) {
	expense, shares, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.groups.requireMember(ctx, actorID, expense.GroupID); err != nil {
		return nil, nil, err
	}
	return expense, shares, nil
}

// ListByGroup retrieves a group's expenses, oldest first.
func (s *ExpenseService) ListByGroup(ctx context.Context, actorID, groupID string) ([]*models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// Delete removes an expense and its shares.
func (s *ExpenseService) Delete(ctx context.Context, actorID, expenseID string) error {
	expense, _, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if _, err := s.groups.requireMember(ctx, actorID, expense.GroupID); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID, "by", actorID)
	return nil
}
