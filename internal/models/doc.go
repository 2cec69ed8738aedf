// Package models defines the core domain models for Divvy.
//
// # Model Overview
//
//   - User: a registered account; participants are always user IDs
//   - Group: a set of users who share expenses
//   - Expense: money fronted by one member on behalf of several
//   - ParticipantShare: one member's portion of one expense
//   - Settlement: a direct payment between members, recorded outside the
//     expense ledger
//   - Balance / Transfer: derived values produced by the settlement engine,
//     never persisted by it
//
// # Design Principles
//
//  1. Models carry no behavior beyond small constructors and parsing helpers;
//     the ledger math lives in internal/calculator.
//  2. Monetary fields use decimal.Decimal so the engine's one-cent
//     reconciliation tolerance is exact rather than float-approximate.
//  3. Relationships are ID strings (UUIDs), never pointers, to avoid
//     circular references.
//  4. Expenses, shares, and settled settlements are immutable once recorded;
//     correcting a mistake means deleting and re-entering, not editing.
package models
