package domain

import "context"

// AccountRepository persists accounts. Balance mutation is atomic at the
// repository boundary: a debit never exists as a separate check-then-write
// pair visible to concurrent callers.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, userID int64) (*Account, error)

	// Credit adds amount (cents) and returns the new balance.
	Credit(ctx context.Context, userID int64, amount int64) (int64, error)

	// Debit subtracts amount (cents) iff the balance covers it, returning
	// the new balance or ErrInsufficientBalance.
	Debit(ctx context.Context, userID int64, amount int64) (int64, error)

	// ApplyBet atomically debits the stake and credits the payout while
	// accumulating the stake into TotalWagered (driving the VIP level).
	// Fails with ErrInsufficientBalance without any mutation when the
	// balance does not cover the stake.
	ApplyBet(ctx context.Context, userID int64, stake, payout int64) (int64, error)
}

// TransactionRepository persists deposit/withdraw records (append-only).
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}
