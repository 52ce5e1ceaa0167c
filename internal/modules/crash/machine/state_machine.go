// Package machine runs the shared crash round lifecycle.
package machine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/9yuq/nexus/pkg/metrics"
)

// GameEvent is an internal lifecycle event handed to registered handlers
type GameEvent struct {
	Type       string
	RoundID    string
	CrashPoint float64
	BettingEnd time.Time
}

// Lifecycle event types
const (
	EventRoundWaiting = "round_waiting"
	EventRoundStarted = "round_started"
	EventRoundCrashed = "round_crashed"
)

// EventHandler handles lifecycle events
type EventHandler func(event GameEvent)

// RoundView is a read-only snapshot of the current round
type RoundView struct {
	RoundID    string
	Phase      domain.Phase
	CrashPoint float64
	StartTime  time.Time
	BettingEnd time.Time
	Multiplier float64 // server-derived, current
	Countdown  int64   // seconds until betting closes (waiting only)
}

// StateMachine owns the single shared crash round. The loop is timer
// driven: bet placement never starts, restarts, or reseeds a round.
type StateMachine struct {
	mu           sync.RWMutex
	currentRound *domain.Round
	roundCounter int

	eventHandlers []EventHandler
	rnd           *rand.Rand

	WaitingDuration time.Duration // betting window
	RestDuration    time.Duration // pause after a crash
	GrowthRate      float64       // multiplier growth per second

	// CrashPointFn overrides crash point generation when set
	CrashPointFn func() float64

	stopping bool
}

// NewStateMachine creates a new state machine with default timings
func NewStateMachine() *StateMachine {
	return &StateMachine{
		eventHandlers:   make([]EventHandler, 0),
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
		WaitingDuration: 7 * time.Second,
		RestDuration:    3 * time.Second,
		GrowthRate:      0.20,
	}
}

// RegisterEventHandler registers an event handler
func (sm *StateMachine) RegisterEventHandler(handler EventHandler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventHandlers = append(sm.eventHandlers, handler)
}

func (sm *StateMachine) emitEvent(event GameEvent) {
	sm.mu.RLock()
	handlers := make([]EventHandler, len(sm.eventHandlers))
	copy(handlers, sm.eventHandlers)
	sm.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}

// Stop signals the state machine to stop after the current round
func (sm *StateMachine) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stopping = true
}

// Start runs the round loop until Stop is called
func (sm *StateMachine) Start(ctx context.Context) {
	logger.Info(ctx).Msg("🚀 [Crash] State machine started")
	for {
		sm.mu.RLock()
		stopping := sm.stopping
		sm.mu.RUnlock()

		if stopping {
			logger.Info(ctx).Msg("🛑 [Crash] State machine stopping")
			return
		}

		sm.runRound(ctx)
	}
}

// runRound executes one full round cycle
func (sm *StateMachine) runRound(ctx context.Context) {
	sm.mu.Lock()
	sm.roundCounter++
	counter := sm.roundCounter
	roundID := sm.generateRoundID()
	sm.currentRound = domain.NewRound(roundID, sm.WaitingDuration)
	round := sm.currentRound
	bettingEnd := round.BettingEnd
	sm.mu.Unlock()

	logger.Info(ctx).
		Str("round_id", roundID).
		Int("round_counter", counter).
		Time("betting_end", bettingEnd).
		Msg("🟢 [Crash] Round waiting, bets open")

	sm.emitEvent(GameEvent{
		Type:       EventRoundWaiting,
		RoundID:    roundID,
		BettingEnd: bettingEnd,
	})

	time.Sleep(sm.WaitingDuration)

	//--------------------------------------------
	// Launch: generate the crash point, exactly once per round
	//--------------------------------------------
	crashPoint := sm.generateCrashPoint()

	sm.mu.Lock()
	round.Launch(crashPoint)
	crashAfter := round.CrashAfter(sm.GrowthRate)
	sm.mu.Unlock()

	logger.Info(ctx).
		Str("round_id", roundID).
		Float64("crash_point", crashPoint).
		Dur("duration", crashAfter).
		Msg("🎲 [Crash] Round in progress")

	sm.emitEvent(GameEvent{
		Type:       EventRoundStarted,
		RoundID:    roundID,
		CrashPoint: crashPoint,
	})

	time.Sleep(crashAfter)

	//--------------------------------------------
	// Crash
	//--------------------------------------------
	sm.mu.Lock()
	round.Crash()
	sm.mu.Unlock()

	logger.Info(ctx).
		Str("round_id", roundID).
		Float64("crash_point", crashPoint).
		Msg("💥 [Crash] Round crashed")

	sm.emitEvent(GameEvent{
		Type:       EventRoundCrashed,
		RoundID:    roundID,
		CrashPoint: crashPoint,
	})

	metrics.RoundsCompleted.Inc()

	time.Sleep(sm.RestDuration)
}

func (sm *StateMachine) generateCrashPoint() float64 {
	sm.mu.Lock()
	fn := sm.CrashPointFn
	u := sm.rnd.Float64()
	sm.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return domain.CrashPointFromUniform(u)
}

func (sm *StateMachine) generateRoundID() string {
	return time.Now().Format("20060102150405.000")
}

// GetCurrentRound returns a snapshot of the current round (thread-safe)
func (sm *StateMachine) GetCurrentRound() RoundView {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.viewLocked()
}

// AcceptingRound returns the round snapshot together with whether it
// still accepts bets, both read under the same lock so a caller cannot
// pair one round's view with another round's verdict.
func (sm *StateMachine) AcceptingRound() (RoundView, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.currentRound == nil {
		return RoundView{}, false
	}
	return sm.viewLocked(), sm.currentRound.CanAcceptBet()
}

func (sm *StateMachine) viewLocked() RoundView {
	if sm.currentRound == nil {
		return RoundView{}
	}

	r := sm.currentRound
	view := RoundView{
		RoundID:    r.RoundID,
		Phase:      r.Phase,
		CrashPoint: r.CrashPoint,
		StartTime:  r.StartTime,
		BettingEnd: r.BettingEnd,
		Multiplier: r.MultiplierAt(time.Now(), sm.GrowthRate),
	}
	if r.Phase == domain.PhaseWaiting {
		countdown := int64(time.Until(r.BettingEnd).Seconds())
		if countdown < 0 {
			countdown = 0
		}
		view.Countdown = countdown
	}
	return view
}

// CanAcceptBet checks if the current round accepts bets
func (sm *StateMachine) CanAcceptBet() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.currentRound == nil {
		return false
	}
	return sm.currentRound.CanAcceptBet()
}
