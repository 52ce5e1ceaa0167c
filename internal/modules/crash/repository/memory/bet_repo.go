// Package memory provides an in-memory crash bet store.
package memory

import (
	"context"
	"sync"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
)

// BetRepository keeps open bets in process memory, keyed by round then user
type BetRepository struct {
	mu   sync.Mutex
	bets map[string]map[int64]*domain.Bet
}

// NewBetRepository creates a new in-memory bet repository
func NewBetRepository() *BetRepository {
	return &BetRepository{
		bets: make(map[string]map[int64]*domain.Bet),
	}
}

// Save stores a new bet, rejecting duplicates within the round
func (r *BetRepository) Save(ctx context.Context, bet *domain.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	round, ok := r.bets[bet.RoundID]
	if !ok {
		round = make(map[int64]*domain.Bet)
		r.bets[bet.RoundID] = round
	}
	if _, exists := round[bet.UserID]; exists {
		return domain.ErrBetAlreadyPlaced
	}

	copied := *bet
	round[bet.UserID] = &copied
	return nil
}

// Get returns the user's open bet, or nil when none exists
func (r *BetRepository) Get(ctx context.Context, roundID string, userID int64) (*domain.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bet, ok := r.bets[roundID][userID]
	if !ok {
		return nil, nil
	}
	copied := *bet
	return &copied, nil
}

// List returns all open bets for the round
func (r *BetRepository) List(ctx context.Context, roundID string) ([]*domain.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	round := r.bets[roundID]
	bets := make([]*domain.Bet, 0, len(round))
	for _, bet := range round {
		copied := *bet
		bets = append(bets, &copied)
	}
	return bets, nil
}

// Claim atomically removes and returns the user's open bet
func (r *BetRepository) Claim(ctx context.Context, roundID string, userID int64) (*domain.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bet, ok := r.bets[roundID][userID]
	if !ok {
		return nil, domain.ErrNoActiveBet
	}
	delete(r.bets[roundID], userID)
	return bet, nil
}

// Clear drops all bookkeeping for a finished round
func (r *BetRepository) Clear(ctx context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bets, roundID)
	return nil
}
