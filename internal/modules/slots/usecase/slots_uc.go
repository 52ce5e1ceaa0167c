// Package usecase implements slot spins and their settlement.
package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	"github.com/9yuq/nexus/internal/modules/settlement"
	"github.com/9yuq/nexus/internal/modules/slots/domain"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
)

// Result is one settled spin
type Result struct {
	Reels      [3]int  `json:"reels"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`      // cents
	NewBalance int64   `json:"new_balance"` // cents
}

// SlotsUseCase handles slot spins
type SlotsUseCase struct {
	engine *settlement.Engine

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSlotsUseCase creates a new slots use case
func NewSlotsUseCase(engine *settlement.Engine) *SlotsUseCase {
	return &SlotsUseCase{
		engine: engine,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSlotsUseCaseWithSeed creates a use case with a deterministic reel
// sequence, for tests.
func NewSlotsUseCaseWithSeed(engine *settlement.Engine, seed int64) *SlotsUseCase {
	return &SlotsUseCase{
		engine: engine,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Spin draws three weighted reels and settles stake and payout in one
// atomic wallet operation.
func (uc *SlotsUseCase) Spin(ctx context.Context, userID int64, amount int64) (*Result, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	total := domain.TotalWeight()
	var reels [3]int
	uc.mu.Lock()
	for i := range reels {
		reels[i] = domain.Draw(uc.rnd.Intn(total))
	}
	uc.mu.Unlock()

	multiplier := domain.Payline(reels)

	var payout int64
	if multiplier > 0 {
		payout = walletdomain.MulCents(amount, multiplier)
	}

	newBalance, err := uc.engine.Settle(ctx, settlement.Outcome{
		UserID:     userID,
		GameType:   historydomain.GameTypeSlots,
		BetAmount:  amount,
		Multiplier: multiplier,
		Payout:     payout,
	})
	if err != nil {
		return nil, err
	}

	metrics.BetsPlaced.WithLabelValues(historydomain.GameTypeSlots).Inc()

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("amount", amount).
		Ints("reels", reels[:]).
		Float64("multiplier", multiplier).
		Int64("payout", payout).
		Msg("Slot spin settled")

	return &Result{
		Reels:      reels,
		Win:        payout > 0,
		Multiplier: multiplier,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}
