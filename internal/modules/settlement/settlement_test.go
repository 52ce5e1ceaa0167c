package settlement

import (
	"context"
	"testing"

	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	historymemory "github.com/9yuq/nexus/internal/modules/history/repository/memory"
	historyuc "github.com/9yuq/nexus/internal/modules/history/usecase"
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

func newEngine(t *testing.T, balance int64) (*Engine, *walletuc.WalletUseCase, *historyuc.HistoryUseCase) {
	t.Helper()

	wallet := walletuc.NewWalletUseCase(walletmemory.NewAccountRepository(), walletmemory.NewTransactionRepository())
	require.NoError(t, wallet.OpenAccount(context.Background(), 1, balance))

	history := historyuc.NewHistoryUseCase(historymemory.NewRepository(), nil)
	return NewEngine(wallet, history), wallet, history
}

func TestSettleWin(t *testing.T) {
	engine, _, history := newEngine(t, 10000)

	newBalance, err := engine.Settle(context.Background(), Outcome{
		UserID:     1,
		GameType:   historydomain.GameTypeDice,
		BetAmount:  5000,
		Multiplier: 2.13,
		Payout:     10650,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15650), newBalance)

	records, err := history.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, historydomain.GameTypeDice, records[0].GameType)
	assert.Equal(t, int64(10650), records[0].Payout)
}

func TestSettleLoss(t *testing.T) {
	engine, wallet, history := newEngine(t, 10000)

	newBalance, err := engine.Settle(context.Background(), Outcome{
		UserID:     1,
		GameType:   historydomain.GameTypeSlots,
		BetAmount:  2500,
		Multiplier: 0,
		Payout:     0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), newBalance)

	account, err := wallet.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), account.TotalWagered)

	records, err := history.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].Payout)
}

func TestSettleInsufficientBalance(t *testing.T) {
	engine, _, history := newEngine(t, 100)

	_, err := engine.Settle(context.Background(), Outcome{
		UserID:    1,
		GameType:  historydomain.GameTypeDice,
		BetAmount: 500,
	})
	assert.ErrorIs(t, err, walletdomain.ErrInsufficientBalance)

	// A rejected bet leaves no history record.
	records, err := history.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSettlePrepaidRecordsOnly(t *testing.T) {
	engine, wallet, history := newEngine(t, 10000)

	err := engine.SettlePrepaid(context.Background(), Outcome{
		UserID:     1,
		GameType:   historydomain.GameTypeCrash,
		BetAmount:  1000,
		Multiplier: 1.80,
		Payout:     1800,
	})
	require.NoError(t, err)

	// Money already moved elsewhere, the balance stays put.
	account, err := wallet.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), account.Balance)

	records, err := history.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, historydomain.GameTypeCrash, records[0].GameType)
}
