package usecase

import (
	"context"
	"testing"

	historymemory "github.com/9yuq/nexus/internal/modules/history/repository/memory"
	historyuc "github.com/9yuq/nexus/internal/modules/history/usecase"
	"github.com/9yuq/nexus/internal/modules/settlement"
	"github.com/9yuq/nexus/internal/modules/slots/domain"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	walletmemory "github.com/9yuq/nexus/internal/modules/wallet/repository/memory"
	walletuc "github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

func newTestUseCase(t *testing.T, balance int64, seed int64) (*SlotsUseCase, *walletuc.WalletUseCase) {
	t.Helper()

	wallet := walletuc.NewWalletUseCase(walletmemory.NewAccountRepository(), walletmemory.NewTransactionRepository())
	require.NoError(t, wallet.OpenAccount(context.Background(), 1, balance))

	history := historyuc.NewHistoryUseCase(historymemory.NewRepository(), nil)
	engine := settlement.NewEngine(wallet, history)
	return NewSlotsUseCaseWithSeed(engine, seed), wallet
}

func TestSpinValidation(t *testing.T) {
	uc, _ := newTestUseCase(t, 10000, 1)

	_, err := uc.Spin(context.Background(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Spin(context.Background(), 1, -100)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSpinSettlement(t *testing.T) {
	uc, _ := newTestUseCase(t, 10000, 7)

	result, err := uc.Spin(context.Background(), 1, 2500)
	require.NoError(t, err)

	for _, symbol := range result.Reels {
		assert.GreaterOrEqual(t, symbol, 0)
		assert.Less(t, symbol, domain.SymbolCount)
	}

	expected := domain.Payline(result.Reels)
	assert.Equal(t, expected, result.Multiplier)
	if expected > 0 {
		assert.True(t, result.Win)
		assert.Equal(t, walletdomain.MulCents(2500, expected), result.Payout)
	} else {
		assert.False(t, result.Win)
		assert.Equal(t, int64(0), result.Payout)
	}
	assert.Equal(t, int64(10000)-2500+result.Payout, result.NewBalance)
}

func TestSpinInsufficientBalance(t *testing.T) {
	uc, wallet := newTestUseCase(t, 100, 1)

	_, err := uc.Spin(context.Background(), 1, 2500)
	assert.ErrorIs(t, err, walletdomain.ErrInsufficientBalance)

	account, err := wallet.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
}

func TestSpinSequenceConservesMoney(t *testing.T) {
	uc, wallet := newTestUseCase(t, 10000000, 99)

	var wagered, paid int64
	for i := 0; i < 500; i++ {
		result, err := uc.Spin(context.Background(), 1, 1000)
		require.NoError(t, err)
		wagered += 1000
		paid += result.Payout
	}

	account, err := wallet.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000000)-wagered+paid, account.Balance)
}
