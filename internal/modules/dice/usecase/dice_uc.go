// Package usecase implements dice rolls and their settlement.
package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/9yuq/nexus/internal/modules/dice/domain"
	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	"github.com/9yuq/nexus/internal/modules/settlement"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
)

// Result is one settled dice roll
type Result struct {
	Roll       int     `json:"roll"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`      // cents
	NewBalance int64   `json:"new_balance"` // cents
}

// DiceUseCase handles dice bets
type DiceUseCase struct {
	engine *settlement.Engine

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDiceUseCase creates a new dice use case
func NewDiceUseCase(engine *settlement.Engine) *DiceUseCase {
	return &DiceUseCase{
		engine: engine,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewDiceUseCaseWithSeed creates a use case with a deterministic roll
// sequence, for tests.
func NewDiceUseCaseWithSeed(engine *settlement.Engine, seed int64) *DiceUseCase {
	return &DiceUseCase{
		engine: engine,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Roll validates the bet, draws the roll, and settles stake and payout in
// one atomic wallet operation.
func (uc *DiceUseCase) Roll(ctx context.Context, userID int64, amount int64, prediction int, isUnder bool) (*Result, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateBet(prediction, isUnder); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	roll := uc.rnd.Intn(domain.RollMax-domain.RollMin+1) + domain.RollMin
	uc.mu.Unlock()

	multiplier := domain.Multiplier(prediction, isUnder)
	win := domain.IsWin(roll, prediction, isUnder)

	// History records the realized multiplier: zero on a loss, the quoted
	// odds on a win. The response keeps the quoted odds either way.
	var payout int64
	var realized float64
	if win {
		payout = walletdomain.MulCents(amount, multiplier)
		realized = multiplier
	}

	newBalance, err := uc.engine.Settle(ctx, settlement.Outcome{
		UserID:     userID,
		GameType:   historydomain.GameTypeDice,
		BetAmount:  amount,
		Multiplier: realized,
		Payout:     payout,
	})
	if err != nil {
		return nil, err
	}

	metrics.BetsPlaced.WithLabelValues(historydomain.GameTypeDice).Inc()

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("amount", amount).
		Int("prediction", prediction).
		Bool("is_under", isUnder).
		Int("roll", roll).
		Bool("win", win).
		Int64("payout", payout).
		Msg("Dice roll settled")

	return &Result{
		Roll:       roll,
		Win:        win,
		Multiplier: multiplier,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}
