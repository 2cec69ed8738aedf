package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/storage"
)

// CreateExpense persists an expense and its participant shares atomically.
// The shares are stamped with the expense's ID.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, shares []models.ParticipantShare) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, category, amount, paid_by, split_method, expense_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, nullable(expense.Category),
		expense.Amount.String(), expense.PaidBy, string(expense.SplitMethod),
		nullable(expense.ExpenseDate), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range shares {
		shares[i].ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, amount_owed) VALUES (?, ?, ?)",
			expense.ID, shares[i].UserID, shares[i].AmountOwed.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense and its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.ParticipantShare, error) {
	expense := &models.Expense{}
	var category, expenseDate sql.NullString
	var amount, splitMethod string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, category, amount, paid_by, split_method, expense_date, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &category,
		&amount, &expense.PaidBy, &splitMethod, &expenseDate, &expense.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.Category = category.String
	expense.ExpenseDate = expenseDate.String
	expense.SplitMethod = models.SplitMethod(splitMethod)
	if expense.Amount, err = scanAmount(amount); err != nil {
		return nil, nil, err
	}

	shares, err := s.listShares(ctx,
		"SELECT expense_id, user_id, amount_owed FROM expense_participants WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
	if err != nil {
		return nil, nil, err
	}

	return expense, shares, nil
}

// ListExpensesByGroup retrieves all expenses for a group, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, category, amount, paid_by, split_method, expense_date, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var category, expenseDate sql.NullString
		var amount, splitMethod string

		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &category,
			&amount, &expense.PaidBy, &splitMethod, &expenseDate, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		expense.Category = category.String
		expense.ExpenseDate = expenseDate.String
		expense.SplitMethod = models.SplitMethod(splitMethod)
		if expense.Amount, err = scanAmount(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListSharesByGroup retrieves every participant share in a group, in expense
// order, for ledger snapshot assembly.
func (s *SQLiteStore) ListSharesByGroup(ctx context.Context, groupID string) ([]models.ParticipantShare, error) {
	return s.listShares(ctx,
		`SELECT ep.expense_id, ep.user_id, ep.amount_owed
		 FROM expense_participants ep
		 JOIN expenses e ON e.id = ep.expense_id
		 WHERE e.group_id = ? ORDER BY e.created_at, e.id, ep.user_id`,
		groupID,
	)
}

func (s *SQLiteStore) listShares(ctx context.Context, query string, arg any) ([]models.ParticipantShare, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ParticipantShare
	for rows.Next() {
		var share models.ParticipantShare
		var owed string
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &owed); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if share.AmountOwed, err = scanAmount(owed); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// DeleteExpense removes an expense; its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
