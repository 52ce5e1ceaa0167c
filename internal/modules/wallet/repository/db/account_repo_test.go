package db

import (
	"context"
	"testing"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}, &domain.Transaction{}))
	return db
}

func TestConditionalDebit(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{UserID: 1, Balance: 1000}))

	newBalance, err := repo.Debit(ctx, 1, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(600), newBalance)

	// Zero rows touched: enough to tell apart the two miss cases.
	_, err = repo.Debit(ctx, 1, 5000)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = repo.Debit(ctx, 99, 100)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestApplyBetUpdatesWageringAndVIP(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{UserID: 1, Balance: 300000}))

	newBalance, err := repo.ApplyBet(ctx, 1, 100000, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), newBalance)

	account, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), account.TotalWagered)
	assert.Equal(t, 1, account.VIPLevel)
}

func TestApplyBetRejectedLeavesRowUntouched(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{UserID: 1, Balance: 100}))

	_, err := repo.ApplyBet(ctx, 1, 500, 1000)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	account, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
	assert.Equal(t, int64(0), account.TotalWagered)
	assert.Equal(t, 0, account.VIPLevel)
}

func TestTransactionLog(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	for i, txType := range []string{domain.TransactionTypeDeposit, domain.TransactionTypeWithdraw} {
		err := repo.Create(ctx, &domain.Transaction{
			ID:     string(rune('a' + i)),
			UserID: 1,
			Type:   txType,
			Amount: 1000,
			Status: domain.TransactionStatusCompleted,
		})
		require.NoError(t, err)
	}

	txs, err := repo.ListByUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	types := map[string]bool{}
	for _, tx := range txs {
		types[tx.Type] = true
	}
	assert.True(t, types[domain.TransactionTypeDeposit])
	assert.True(t, types[domain.TransactionTypeWithdraw])
}
