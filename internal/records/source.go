// Package records provides the read-only record sources the projection engine consumes.
package records

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// ErrUserNotFound is returned when a source holds no records for a user
var ErrUserNotFound = errors.New("records: user not found")

// Source fetches the complete record set of a user. Implementations must return a snapshot the
// caller may read freely; the engine never writes back.
type Source interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*domain.FinancialSnapshot, error)
}

// MemorySource is an in-memory Source safe for concurrent use
type MemorySource struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.FinancialSnapshot
}

// NewMemorySource creates a source seeded with the given snapshots
func NewMemorySource(snapshots ...domain.FinancialSnapshot) *MemorySource {
	m := &MemorySource{users: make(map[uuid.UUID]domain.FinancialSnapshot, len(snapshots))}
	for _, s := range snapshots {
		m.users[s.UserID] = s
	}
	return m
}

// Put stores or replaces the snapshot of snap.UserID
func (m *MemorySource) Put(snap domain.FinancialSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[snap.UserID] = snap
}

// Users lists the stored user IDs
func (m *MemorySource) Users() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns a copy of the stored records so callers cannot alias internal slices
func (m *MemorySource) Snapshot(ctx context.Context, userID uuid.UUID) (*domain.FinancialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	snap, ok := m.users[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	out := snap
	out.Incomes = append([]domain.Income(nil), snap.Incomes...)
	out.Investments = append([]domain.Investment(nil), snap.Investments...)
	out.Loans = append([]domain.Loan(nil), snap.Loans...)
	out.Insurances = append([]domain.Insurance(nil), snap.Insurances...)
	out.Expenses = append([]domain.Expense(nil), snap.Expenses...)
	out.Goals = append([]domain.Goal(nil), snap.Goals...)
	return &out, nil
}
