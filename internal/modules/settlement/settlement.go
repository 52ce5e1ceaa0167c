// Package settlement finalizes bets: it moves money through the wallet,
// records the outcome in the history log, and bumps the game metrics.
// Every game funnels its outcomes through here so that a settled bet
// always means balance, history, and metrics moved together.
package settlement

import (
	"context"
	"fmt"

	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	historyuc "github.com/9yuq/nexus/internal/modules/history/usecase"
	walletuc "github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
)

// Outcome is one resolved bet handed to the engine
type Outcome struct {
	UserID     int64
	GameType   string
	BetAmount  int64 // cents
	Multiplier float64
	Payout     int64 // cents, 0 on loss
}

// Engine settles bet outcomes
type Engine struct {
	wallet  *walletuc.WalletUseCase
	history *historyuc.HistoryUseCase
}

// NewEngine creates a settlement engine
func NewEngine(wallet *walletuc.WalletUseCase, history *historyuc.HistoryUseCase) *Engine {
	return &Engine{wallet: wallet, history: history}
}

// Settle debits the stake and credits the payout in one atomic wallet
// operation, then records the outcome. Used by instant games where the
// stake was not taken up front. Returns the new balance.
func (e *Engine) Settle(ctx context.Context, outcome Outcome) (int64, error) {
	newBalance, err := e.wallet.ApplyBet(ctx, outcome.UserID, outcome.BetAmount, outcome.Payout)
	if err != nil {
		return 0, err
	}

	if err := e.record(ctx, outcome); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// SettlePrepaid records an outcome whose money already moved (the stake
// was debited at bet time and any payout credited at cashout). Only the
// history log and metrics remain.
func (e *Engine) SettlePrepaid(ctx context.Context, outcome Outcome) error {
	return e.record(ctx, outcome)
}

func (e *Engine) record(ctx context.Context, outcome Outcome) error {
	record := &historydomain.GameHistory{
		UserID:     outcome.UserID,
		GameType:   outcome.GameType,
		BetAmount:  outcome.BetAmount,
		Multiplier: outcome.Multiplier,
		Payout:     outcome.Payout,
	}
	if err := e.history.Append(ctx, record); err != nil {
		logger.Error(ctx).Err(err).
			Int64("user_id", outcome.UserID).
			Str("game_type", outcome.GameType).
			Msg("Failed to append settlement record")
		return fmt.Errorf("failed to record settlement: %w", err)
	}

	result := "lose"
	if outcome.Payout > 0 {
		result = "win"
	}
	metrics.BetsSettled.WithLabelValues(outcome.GameType, result).Inc()
	if outcome.Payout > 0 {
		metrics.PayoutCents.WithLabelValues(outcome.GameType).Add(float64(outcome.Payout))
	}
	return nil
}
