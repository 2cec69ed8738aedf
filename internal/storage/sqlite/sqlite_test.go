package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "divvy-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and lookup", func(t *testing.T) {
		user := models.NewUser("alice@example.com", "Alice", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID || byEmail.DisplayName != "Alice" {
			t.Errorf("got %+v, want %+v", byEmail, user)
		}

		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateGroup generates ID and stores members", func(t *testing.T) {
		group := &models.Group{
			Name:      "Roommates",
			Members:   []string{"alice", "bob", "carol"},
			CreatedBy: "alice",
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" || group.CreatedAt == 0 {
			t.Error("expected generated ID and CreatedAt")
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Members) != 3 {
			t.Errorf("got %d members, want 3", len(retrieved.Members))
		}
	})

	t.Run("AddGroupMembers ignores duplicates", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []string{"alice"}, CreatedBy: "alice"}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.AddGroupMembers(ctx, group.ID, []string{"alice", "bob"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Members) != 2 {
			t.Errorf("got members %v, want alice and bob", retrieved.Members)
		}

		if err := store.AddGroupMembers(ctx, "missing", []string{"x"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing group, got %v", err)
		}
	})

	t.Run("ListGroupsByMember", func(t *testing.T) {
		group := &models.Group{Name: "Dinner Club", Members: []string{"dave"}, CreatedBy: "dave"}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, "dave")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].Name != "Dinner Club" {
			t.Errorf("got %v, want the dinner club", groups)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"alice", "bob"}, CreatedBy: "alice"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: "Groceries",
		Category:    "food",
		Amount:      decimal.RequireFromString("33.33"),
		PaidBy:      "alice",
		SplitMethod: models.SplitEqual,
		ExpenseDate: "2026-08-01",
	}
	shares := []models.ParticipantShare{
		{UserID: "alice", AmountOwed: decimal.RequireFromString("16.67")},
		{UserID: "bob", AmountOwed: decimal.RequireFromString("16.66")},
	}

	t.Run("CreateExpense stamps IDs", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense, shares); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("expected generated expense ID")
		}
		for _, s := range shares {
			if s.ExpenseID != expense.ID {
				t.Errorf("share not stamped with expense ID: %+v", s)
			}
		}
	})

	t.Run("GetExpense round-trips amounts exactly", func(t *testing.T) {
		retrieved, retrievedShares, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !retrieved.Amount.Equal(expense.Amount) {
			t.Errorf("amount = %s, want %s", retrieved.Amount, expense.Amount)
		}
		if retrieved.SplitMethod != models.SplitEqual || retrieved.Category != "food" {
			t.Errorf("unexpected fields: %+v", retrieved)
		}
		if len(retrievedShares) != 2 {
			t.Fatalf("got %d shares, want 2", len(retrievedShares))
		}
		sum := decimal.Zero
		for _, s := range retrievedShares {
			sum = sum.Add(s.AmountOwed)
		}
		if !sum.Equal(expense.Amount) {
			t.Errorf("shares sum to %s, want %s", sum, expense.Amount)
		}
	})

	t.Run("ListSharesByGroup spans all expenses", func(t *testing.T) {
		second := &models.Expense{
			GroupID:     group.ID,
			Description: "Internet",
			Amount:      decimal.RequireFromString("40"),
			PaidBy:      "bob",
			SplitMethod: models.SplitEqual,
		}
		secondShares := []models.ParticipantShare{
			{UserID: "alice", AmountOwed: decimal.RequireFromString("20")},
			{UserID: "bob", AmountOwed: decimal.RequireFromString("20")},
		}
		if err := store.CreateExpense(ctx, second, secondShares); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("got %d expenses, want 2", len(expenses))
		}

		allShares, err := store.ListSharesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSharesByGroup failed: %v", err)
		}
		if len(allShares) != 4 {
			t.Errorf("got %d shares, want 4", len(allShares))
		}
	})

	t.Run("DeleteExpense cascades to shares", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		allShares, err := store.ListSharesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSharesByGroup failed: %v", err)
		}
		for _, s := range allShares {
			if s.ExpenseID == expense.ID {
				t.Errorf("orphan share survived delete: %+v", s)
			}
		}

		if err := store.DeleteExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for double delete, got %v", err)
		}
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"alice", "bob"}, CreatedBy: "alice"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		FromUserID: "bob",
		ToUserID:   "alice",
		Amount:     decimal.RequireFromString("30"),
		Note:       "venmo",
		CreatedBy:  "bob",
	}

	t.Run("CreateSettlement defaults to pending", func(t *testing.T) {
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		retrieved, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if retrieved.Status != models.SettlementPending {
			t.Errorf("status = %s, want pending", retrieved.Status)
		}
		if retrieved.Note != "venmo" || !retrieved.Amount.Equal(settlement.Amount) {
			t.Errorf("round-trip mismatch: %+v", retrieved)
		}
	})

	t.Run("pending settlements are excluded from settled list", func(t *testing.T) {
		settled, err := store.ListSettledByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettledByGroup failed: %v", err)
		}
		if len(settled) != 0 {
			t.Errorf("got %d settled, want 0", len(settled))
		}
	})

	t.Run("MarkSettlementSettled", func(t *testing.T) {
		if err := store.MarkSettlementSettled(ctx, settlement.ID, 1700000000); err != nil {
			t.Fatalf("MarkSettlementSettled failed: %v", err)
		}

		settled, err := store.ListSettledByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettledByGroup failed: %v", err)
		}
		if len(settled) != 1 || settled[0].SettledAt != 1700000000 {
			t.Fatalf("got %+v, want one settled at 1700000000", settled)
		}

		// Settling twice is a not-found: the row is no longer pending.
		if err := store.MarkSettlementSettled(ctx, settlement.ID, 1700000001); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on double settle, got %v", err)
		}
	})

	t.Run("ListSettlementsByGroup includes all statuses", func(t *testing.T) {
		pending := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "alice",
			ToUserID:   "bob",
			Amount:     decimal.RequireFromString("5"),
			CreatedBy:  "alice",
		}
		if err := store.CreateSettlement(ctx, pending); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		all, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("got %d settlements, want 2", len(all))
		}
	})
}
