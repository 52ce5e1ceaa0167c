// Package domain defines the crash game's round lifecycle and bets.
package domain

import (
	"errors"
	"math"
	"time"
)

// Crash errors
var (
	ErrWrongPhase       = errors.New("operation not allowed in current round phase")
	ErrAlreadyCrashed   = errors.New("round has already crashed")
	ErrNoActiveBet      = errors.New("no active bet for this round")
	ErrBetAlreadyPlaced = errors.New("bet already placed for this round")
	ErrInvalidBet       = errors.New("invalid bet parameters")
)

// Phase is the round lifecycle phase. The wire values match the original
// client contract.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseInProgress Phase = "in-progress"
	PhaseCrashed    Phase = "crashed"
)

// Crash point curve bounds
const (
	CrashPointMin = 1.00
	CrashPointMax = 10.00
)

// CrashPointFromUniform maps u ~ uniform[0,1) onto the crash curve:
// 1.00 + u^2 * 9.00, clamped to [1.00, 10.00] and rounded to 2 decimals.
// The squared term concentrates mass near 1.00.
func CrashPointFromUniform(u float64) float64 {
	cp := CrashPointMin + u*u*(CrashPointMax-CrashPointMin)
	cp = math.Round(cp*100) / 100
	if cp < CrashPointMin {
		return CrashPointMin
	}
	if cp > CrashPointMax {
		return CrashPointMax
	}
	return cp
}

// Round is the single shared crash round. Exactly one exists per process;
// it is owned and mutated only by the state machine.
type Round struct {
	RoundID    string
	Phase      Phase
	CrashPoint float64 // hidden from players until the crash
	BettingEnd time.Time
	StartTime  time.Time // set at launch
}

// NewRound creates a round in the waiting phase with an open betting window
func NewRound(roundID string, bettingWindow time.Duration) *Round {
	return &Round{
		RoundID:    roundID,
		Phase:      PhaseWaiting,
		BettingEnd: time.Now().Add(bettingWindow),
	}
}

// CanAcceptBet reports whether bets may join this round
func (r *Round) CanAcceptBet() bool {
	return r.Phase == PhaseWaiting && time.Now().Before(r.BettingEnd)
}

// Launch transitions the round into progress with its predetermined crash
// point. The crash point is generated exactly once per round, here.
func (r *Round) Launch(crashPoint float64) {
	r.Phase = PhaseInProgress
	r.CrashPoint = crashPoint
	r.StartTime = time.Now()
}

// Crash ends the round
func (r *Round) Crash() {
	r.Phase = PhaseCrashed
}

// MultiplierAt computes the public multiplier from elapsed time: linear
// growth from 1.00, floored to 2 decimals and capped at the crash point.
// Derived purely server-side; client input never feeds it.
func (r *Round) MultiplierAt(t time.Time, growthRate float64) float64 {
	if r.Phase == PhaseWaiting {
		return 1.00
	}
	elapsed := t.Sub(r.StartTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	m := 1.00 + elapsed*growthRate
	m = math.Floor(m*100) / 100
	if r.CrashPoint > 0 && m > r.CrashPoint {
		return r.CrashPoint
	}
	return m
}

// CrashAfter returns how long the round runs before reaching its crash
// point at the given growth rate.
func (r *Round) CrashAfter(growthRate float64) time.Duration {
	return time.Duration((r.CrashPoint - 1.00) / growthRate * float64(time.Second))
}
