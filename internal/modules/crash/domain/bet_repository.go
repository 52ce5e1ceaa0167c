package domain

import "context"

// BetRepository stores the open bets of the current round. One bet per user
// per round. Claim must be atomic: a bet can be settled exactly once even
// when a manual cashout races the auto-cashout sweep or the crash.
type BetRepository interface {
	// Save stores a new bet. Returns ErrBetAlreadyPlaced if the user
	// already has an open bet in the round.
	Save(ctx context.Context, bet *Bet) error

	// Get returns the user's open bet, or nil when none exists.
	Get(ctx context.Context, roundID string, userID int64) (*Bet, error)

	// List returns all open bets for the round.
	List(ctx context.Context, roundID string) ([]*Bet, error)

	// Claim atomically removes and returns the user's open bet. Returns
	// ErrNoActiveBet when there is nothing to claim.
	Claim(ctx context.Context, roundID string, userID int64) (*Bet, error)

	// Clear drops any bet bookkeeping left for a finished round.
	Clear(ctx context.Context, roundID string) error
}
