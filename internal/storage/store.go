// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tmun/divvy/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its initial members.
	// The group.ID field will be populated by the store if empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers adds users to a group, ignoring existing members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// ListGroupsByMember retrieves all groups a user belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateExpense persists an expense together with its participant shares
	// in one transaction. The expense.ID field will be populated if empty,
	// and each share's ExpenseID is stamped by the store.
	CreateExpense(ctx context.Context, expense *models.Expense, shares []models.ParticipantShare) error

	// GetExpense retrieves an expense and its shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.ParticipantShare, error)

	// ListExpensesByGroup retrieves all expenses for a group, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListSharesByGroup retrieves the participant shares of every expense in
	// a group, in expense order. Used to assemble ledger snapshots.
	ListSharesByGroup(ctx context.Context, groupID string) ([]models.ParticipantShare, error)

	// DeleteExpense removes an expense and its shares.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement record.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves all settlements for a group, newest
	// first, regardless of status.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettledByGroup retrieves only confirmed settlements, oldest first.
	// These are the transfers that feed the balance aggregator.
	ListSettledByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// MarkSettlementSettled flips a pending settlement to settled.
	MarkSettlementSettled(ctx context.Context, settlementID string, settledAt int64) error

	// Close releases any resources held by the store.
	Close() error
}
