// Package memory provides the in-memory game history repository.
package memory

import (
	"context"
	"sync"

	"github.com/9yuq/nexus/internal/modules/history/domain"
)

// Repository implements domain.Repository in memory
type Repository struct {
	records []*domain.GameHistory
	nextID  int64
	mu      sync.RWMutex
}

// NewRepository creates a new memory history repository
func NewRepository() *Repository {
	return &Repository{nextID: 1}
}

// Create appends a history record
func (r *Repository) Create(ctx context.Context, record *domain.GameHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	cpy.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &cpy)
	record.ID = cpy.ID
	return nil
}

// ListByUser returns a user's settled bets, newest first
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.GameHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.GameHistory, 0)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].UserID == userID {
			cpy := *r.records[i]
			out = append(out, &cpy)
		}
	}
	return out, nil
}

// ListRecent returns the latest settled bets across all users, newest first
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.GameHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.GameHistory, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		cpy := *r.records[i]
		out = append(out, &cpy)
	}
	return out, nil
}
