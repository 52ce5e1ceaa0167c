package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, repo *AccountRepository, userID, balance int64) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Account{UserID: userID, Balance: balance})
	require.NoError(t, err)
}

func TestDebitInsufficientBalance(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, 100)

	_, err := repo.Debit(context.Background(), 1, 200)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Balance untouched after the rejected debit.
	account, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
}

func TestApplyBet(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, 10000)

	// Bet 50.00 at 2.13 pays 106.50.
	newBalance, err := repo.ApplyBet(context.Background(), 1, 5000, 10650)
	require.NoError(t, err)
	assert.Equal(t, int64(15650), newBalance)

	account, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), account.TotalWagered)
}

func TestApplyBetRejectsWithoutMutation(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, 100)

	_, err := repo.ApplyBet(context.Background(), 1, 500, 1000)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	account, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
	assert.Equal(t, int64(0), account.TotalWagered)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, 1000)

	// Two simultaneous bets, each staking the full balance. At most one
	// may succeed.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Debit(context.Background(), 1, 1000)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, succeeded)

	account, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
}

func TestUnknownAccount(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.Get(context.Background(), 99)
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))

	_, err = repo.Credit(context.Background(), 99, 100)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransactionsListNewestFirst(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		err := repo.Create(ctx, &domain.Transaction{
			ID:     id,
			UserID: 1,
			Type:   domain.TransactionTypeDeposit,
			Amount: 1000,
			Status: domain.TransactionStatusCompleted,
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.Create(ctx, &domain.Transaction{ID: "other", UserID: 2, Type: domain.TransactionTypeDeposit, Amount: 500, Status: domain.TransactionStatusCompleted}))

	// The limit keeps the latest records, not the earliest.
	txs, err := repo.ListByUser(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "third", txs[0].ID)
	assert.Equal(t, "second", txs[1].ID)
	assert.False(t, txs[0].CreatedAt.IsZero())
}

func TestVIPLevelAccumulates(t *testing.T) {
	repo := NewAccountRepository()
	newAccount(t, repo, 1, 500000)

	for i := 0; i < 3; i++ {
		_, err := repo.ApplyBet(context.Background(), 1, 100000, 100000)
		require.NoError(t, err)
	}

	account, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), account.TotalWagered)
	assert.Equal(t, 3, account.VIPLevel)
}
