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

// CreateSettlement persists a new settlement record.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}

	var settledAt any
	if settlement.SettledAt != 0 {
		settledAt = settlement.SettledAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, status, note, settled_at, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), string(settlement.Status), nullable(settlement.Note),
		settledAt, settlement.CreatedAt, settlement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, status, note, settled_at, created_at, created_by
		 FROM settlements WHERE id = ?`,
		settlementID,
	)

	settlement, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, status, note, settled_at, created_at, created_by
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
}

// ListSettledByGroup retrieves only confirmed settlements, oldest first, in
// the stable order the balance aggregator expects.
func (s *SQLiteStore) ListSettledByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, status, note, settled_at, created_at, created_by
		 FROM settlements WHERE group_id = ? AND status = ? ORDER BY created_at, id`,
		groupID, string(models.SettlementSettled),
	)
}

// MarkSettlementSettled flips a pending settlement to settled.
func (s *SQLiteStore) MarkSettlementSettled(ctx context.Context, settlementID string, settledAt int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, settled_at = ? WHERE id = ? AND status = ?",
		string(models.SettlementSettled), settledAt, settlementID, string(models.SettlementPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("pending settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

func scanSettlement(scan func(dest ...any) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var amount, status string
	var note sql.NullString
	var settledAt sql.NullInt64

	err := scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&amount, &status, &note, &settledAt, &settlement.CreatedAt, &settlement.CreatedBy)
	if err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	settlement.Note = note.String
	settlement.SettledAt = settledAt.Int64
	if settlement.Amount, err = scanAmount(amount); err != nil {
		return nil, err
	}

	return settlement, nil
}
