// Package memory provides in-memory wallet repositories for development and
// tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
)

// AccountRepository implements domain.AccountRepository in memory. All
// mutations run under one mutex, which serializes check-and-debit per
// process.
type AccountRepository struct {
	accounts map[int64]*domain.Account
	mu       sync.RWMutex
}

// NewAccountRepository creates a new memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *account
	r.accounts[account.UserID] = &cpy
	return nil
}

// Get retrieves an account by user ID
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cpy := *account
	return &cpy, nil
}

// Credit adds amount to the balance
func (r *AccountRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	account.Balance += amount
	return account.Balance, nil
}

// Debit subtracts amount iff the balance covers it
func (r *AccountRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if account.Balance < amount {
		return 0, domain.ErrInsufficientBalance
	}
	account.Balance -= amount
	return account.Balance, nil
}

// ApplyBet atomically debits the stake and credits the payout
func (r *AccountRepository) ApplyBet(ctx context.Context, userID int64, stake, payout int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if account.Balance < stake {
		return 0, domain.ErrInsufficientBalance
	}

	account.Balance = account.Balance - stake + payout
	account.TotalWagered += stake
	account.VIPLevel = domain.VIPLevelFor(account.TotalWagered)
	return account.Balance, nil
}

// TransactionRepository implements domain.TransactionRepository in memory
type TransactionRepository struct {
	txs []*domain.Transaction
	mu  sync.RWMutex
}

// NewTransactionRepository creates a new memory transaction repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create appends a transaction record
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *tx
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now()
	}
	r.txs = append(r.txs, &cpy)
	return nil
}

// ListByUser returns a user's transactions, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Transaction, 0)
	for i := len(r.txs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.txs[i].UserID == userID {
			cpy := *r.txs[i]
			out = append(out, &cpy)
		}
	}
	return out, nil
}
