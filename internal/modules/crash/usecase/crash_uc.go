// Package usecase implements crash game betting, cashout, and settlement.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/9yuq/nexus/internal/modules/crash/machine"
	historydomain "github.com/9yuq/nexus/internal/modules/history/domain"
	"github.com/9yuq/nexus/internal/modules/settlement"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	walletuc "github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
)

// Bet bounds
const (
	MinBetCents     = 1
	MinAutoPayout   = 1.01
	MaxAutoPayout   = domain.CrashPointMax
	autoSweepPeriod = 100 * time.Millisecond
)

// CrashUseCase coordinates bets against the shared round machine
type CrashUseCase struct {
	machine     *machine.StateMachine
	bets        domain.BetRepository
	wallet      *walletuc.WalletUseCase
	engine      *settlement.Engine
	broadcaster domain.Broadcaster
}

// NewCrashUseCase creates the crash use case and hooks it into the round
// lifecycle. Call it before the machine starts.
func NewCrashUseCase(
	sm *machine.StateMachine,
	bets domain.BetRepository,
	wallet *walletuc.WalletUseCase,
	engine *settlement.Engine,
	broadcaster domain.Broadcaster,
) *CrashUseCase {
	uc := &CrashUseCase{
		machine:     sm,
		bets:        bets,
		wallet:      wallet,
		engine:      engine,
		broadcaster: broadcaster,
	}
	sm.RegisterEventHandler(uc.handleRoundEvent)
	return uc
}

// State is the public round view. The crash point is only populated once
// the round has crashed.
type State struct {
	RoundID    string  `json:"round_id"`
	Phase      string  `json:"phase"`
	Multiplier float64 `json:"multiplier"`
	Countdown  int64   `json:"countdown,omitempty"`
	CrashPoint float64 `json:"crash_point,omitempty"`
}

// GetState returns the current public round state
func (uc *CrashUseCase) GetState(ctx context.Context) State {
	view := uc.machine.GetCurrentRound()
	state := State{
		RoundID:    view.RoundID,
		Phase:      string(view.Phase),
		Multiplier: view.Multiplier,
		Countdown:  view.Countdown,
	}
	if view.Phase == domain.PhaseCrashed {
		state.CrashPoint = view.CrashPoint
	}
	return state
}

// PlaceBet debits the stake and joins the current round. autoPayout of 0
// means manual cashout only. Returns the bet ID and new balance.
func (uc *CrashUseCase) PlaceBet(ctx context.Context, userID int64, amount int64, autoPayout float64) (*domain.Bet, int64, error) {
	if amount < MinBetCents {
		return nil, 0, domain.ErrInvalidBet
	}
	if autoPayout != 0 && (autoPayout < MinAutoPayout || autoPayout > MaxAutoPayout) {
		return nil, 0, domain.ErrInvalidBet
	}

	view, accepting := uc.machine.AcceptingRound()
	if !accepting {
		return nil, 0, domain.ErrWrongPhase
	}

	existing, err := uc.bets.Get(ctx, view.RoundID, userID)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return nil, 0, domain.ErrBetAlreadyPlaced
	}

	// Take the stake first so a stored bet is always a funded bet.
	newBalance, err := uc.wallet.Debit(ctx, userID, amount)
	if err != nil {
		return nil, 0, err
	}

	// The machine may have moved past the betting window while the debit
	// ran. A bet stored under a finished round would never settle, so
	// refund instead of storing it.
	if current, ok := uc.machine.AcceptingRound(); !ok || current.RoundID != view.RoundID {
		if _, refundErr := uc.wallet.Credit(ctx, userID, amount); refundErr != nil {
			logger.Error(ctx).Err(refundErr).
				Int64("user_id", userID).
				Int64("amount", amount).
				Msg("Failed to refund stake after betting window closed")
		}
		return nil, 0, domain.ErrWrongPhase
	}

	bet := domain.NewBet(view.RoundID, userID, amount, autoPayout)
	if err := uc.bets.Save(ctx, bet); err != nil {
		// Lost the duplicate race or the store is down; give the stake back.
		if _, refundErr := uc.wallet.Credit(ctx, userID, amount); refundErr != nil {
			logger.Error(ctx).Err(refundErr).
				Int64("user_id", userID).
				Int64("amount", amount).
				Msg("Failed to refund stake after bet save failure")
		}
		return nil, 0, err
	}

	metrics.BetsPlaced.WithLabelValues(historydomain.GameTypeCrash).Inc()

	logger.Info(ctx).
		Str("round_id", view.RoundID).
		Str("bet_id", bet.BetID).
		Int64("user_id", userID).
		Int64("amount", amount).
		Float64("auto_payout", autoPayout).
		Msg("Crash bet placed")

	return bet, newBalance, nil
}

// Cashout settles the caller's open bet at the server-derived multiplier
// and returns the multiplier, payout, and new balance. The request is
// only a trigger; any multiplier the client sends is ignored for payout
// purposes.
func (uc *CrashUseCase) Cashout(ctx context.Context, userID int64) (float64, int64, int64, error) {
	view := uc.machine.GetCurrentRound()

	switch view.Phase {
	case domain.PhaseInProgress:
	case domain.PhaseCrashed:
		return 0, 0, 0, domain.ErrAlreadyCrashed
	default:
		return 0, 0, 0, domain.ErrWrongPhase
	}

	multiplier := view.Multiplier
	if multiplier >= view.CrashPoint {
		// The clock has reached the crash point even if the phase flip
		// has not landed yet.
		return 0, 0, 0, domain.ErrAlreadyCrashed
	}

	bet, err := uc.bets.Claim(ctx, view.RoundID, userID)
	if err != nil {
		return 0, 0, 0, err
	}

	payout := walletdomain.MulCents(bet.Amount, multiplier)
	newBalance, err := uc.wallet.Credit(ctx, userID, payout)
	if err != nil {
		return 0, 0, 0, err
	}

	if err := uc.engine.SettlePrepaid(ctx, settlement.Outcome{
		UserID:     userID,
		GameType:   historydomain.GameTypeCrash,
		BetAmount:  bet.Amount,
		Multiplier: multiplier,
		Payout:     payout,
	}); err != nil {
		return 0, 0, 0, err
	}

	uc.sendToUser(userID, domain.Event{
		Type:       domain.EventCashout,
		RoundID:    view.RoundID,
		Multiplier: multiplier,
		Payout:     walletdomain.Amount(payout),
		Timestamp:  time.Now().UnixMilli(),
	})

	logger.Info(ctx).
		Str("round_id", view.RoundID).
		Str("bet_id", bet.BetID).
		Int64("user_id", userID).
		Float64("multiplier", multiplier).
		Int64("payout", payout).
		Msg("Crash cashout")

	return multiplier, payout, newBalance, nil
}

// handleRoundEvent reacts to machine lifecycle events
func (uc *CrashUseCase) handleRoundEvent(event machine.GameEvent) {
	ctx := context.Background()

	switch event.Type {
	case machine.EventRoundWaiting:
		countdown := int64(time.Until(event.BettingEnd).Seconds())
		if countdown < 0 {
			countdown = 0
		}
		uc.broadcast(domain.Event{
			Type:      domain.EventRoundWaiting,
			RoundID:   event.RoundID,
			Countdown: countdown,
			Timestamp: time.Now().UnixMilli(),
		})

	case machine.EventRoundStarted:
		uc.broadcast(domain.Event{
			Type:       domain.EventRoundStarted,
			RoundID:    event.RoundID,
			Multiplier: 1.00,
			Timestamp:  time.Now().UnixMilli(),
		})
		go uc.runAutoCashouts(ctx, event.RoundID)

	case machine.EventRoundCrashed:
		uc.broadcast(domain.Event{
			Type:       domain.EventRoundCrashed,
			RoundID:    event.RoundID,
			CrashPoint: event.CrashPoint,
			Timestamp:  time.Now().UnixMilli(),
		})
		uc.settleForfeits(ctx, event.RoundID, event.CrashPoint)
	}
}

// runAutoCashouts sweeps open bets during the in-progress phase and fires
// each auto-cashout once its target multiplier is reached.
func (uc *CrashUseCase) runAutoCashouts(ctx context.Context, roundID string) {
	ticker := time.NewTicker(autoSweepPeriod)
	defer ticker.Stop()

	for range ticker.C {
		view := uc.machine.GetCurrentRound()
		if view.RoundID != roundID || view.Phase != domain.PhaseInProgress {
			return
		}

		bets, err := uc.bets.List(ctx, roundID)
		if err != nil {
			logger.Error(ctx).Err(err).Str("round_id", roundID).Msg("Auto-cashout sweep failed to list bets")
			continue
		}

		for _, bet := range bets {
			if bet.AutoPayout <= 0 || view.Multiplier < bet.AutoPayout {
				continue
			}
			if bet.AutoPayout >= view.CrashPoint {
				// Target sits at or beyond the crash, the crash wins.
				continue
			}
			uc.autoCashout(ctx, roundID, bet)
		}
	}
}

func (uc *CrashUseCase) autoCashout(ctx context.Context, roundID string, bet *domain.Bet) {
	claimed, err := uc.bets.Claim(ctx, roundID, bet.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveBet) {
			// A manual cashout got there first.
			return
		}
		logger.Error(ctx).Err(err).Str("bet_id", bet.BetID).Msg("Auto-cashout claim failed")
		return
	}

	// Pay at the player's target, not at the sweep's observed value.
	multiplier := claimed.AutoPayout
	payout := walletdomain.MulCents(claimed.Amount, multiplier)
	if _, err := uc.wallet.Credit(ctx, claimed.UserID, payout); err != nil {
		logger.Error(ctx).Err(err).
			Str("bet_id", claimed.BetID).
			Int64("user_id", claimed.UserID).
			Msg("Auto-cashout credit failed")
		return
	}

	if err := uc.engine.SettlePrepaid(ctx, settlement.Outcome{
		UserID:     claimed.UserID,
		GameType:   historydomain.GameTypeCrash,
		BetAmount:  claimed.Amount,
		Multiplier: multiplier,
		Payout:     payout,
	}); err != nil {
		logger.Error(ctx).Err(err).Str("bet_id", claimed.BetID).Msg("Auto-cashout settlement record failed")
	}

	uc.sendToUser(claimed.UserID, domain.Event{
		Type:       domain.EventCashout,
		RoundID:    roundID,
		Multiplier: multiplier,
		Payout:     walletdomain.Amount(payout),
		Timestamp:  time.Now().UnixMilli(),
	})

	logger.Info(ctx).
		Str("round_id", roundID).
		Str("bet_id", claimed.BetID).
		Int64("user_id", claimed.UserID).
		Float64("multiplier", multiplier).
		Msg("Auto-cashout fired")
}

// settleForfeits records every bet still open at the crash as a loss,
// then clears the round's bookkeeping.
func (uc *CrashUseCase) settleForfeits(ctx context.Context, roundID string, crashPoint float64) {
	bets, err := uc.bets.List(ctx, roundID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("round_id", roundID).Msg("Forfeit sweep failed to list bets")
		return
	}

	for _, bet := range bets {
		claimed, err := uc.bets.Claim(ctx, roundID, bet.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNoActiveBet) {
				continue
			}
			logger.Error(ctx).Err(err).Str("bet_id", bet.BetID).Msg("Forfeit claim failed")
			continue
		}

		if err := uc.engine.SettlePrepaid(ctx, settlement.Outcome{
			UserID:     claimed.UserID,
			GameType:   historydomain.GameTypeCrash,
			BetAmount:  claimed.Amount,
			Multiplier: crashPoint,
			Payout:     0,
		}); err != nil {
			logger.Error(ctx).Err(err).Str("bet_id", claimed.BetID).Msg("Forfeit settlement record failed")
			continue
		}

		uc.sendToUser(claimed.UserID, domain.Event{
			Type:       domain.EventBetForfeited,
			RoundID:    roundID,
			CrashPoint: crashPoint,
			Timestamp:  time.Now().UnixMilli(),
		})
	}

	if err := uc.bets.Clear(ctx, roundID); err != nil {
		logger.Error(ctx).Err(err).Str("round_id", roundID).Msg("Failed to clear round bets")
	}

	logger.Info(ctx).
		Str("round_id", roundID).
		Float64("crash_point", crashPoint).
		Int("forfeited", len(bets)).
		Msg("Round forfeits settled")
}

func (uc *CrashUseCase) broadcast(event domain.Event) {
	if uc.broadcaster != nil {
		uc.broadcaster.Broadcast(event)
	}
}

func (uc *CrashUseCase) sendToUser(userID int64, event domain.Event) {
	if uc.broadcaster != nil {
		uc.broadcaster.SendToUser(userID, event)
	}
}
