// Package domain defines the dice game's rules.
package domain

import (
	"errors"
	"math"
)

// Dice errors
var (
	ErrInvalidPrediction = errors.New("prediction must be between 1 and 99")
	ErrImpossibleBet     = errors.New("bet has no winning outcome")
	ErrInvalidAmount     = errors.New("bet amount must be positive")
)

// Roll bounds, inclusive
const (
	RollMin = 1
	RollMax = 100
)

// ValidateBet rejects predictions outside [1, 99] and the one corner bet
// that can never win: under 1, where no roll is strictly below the
// prediction.
func ValidateBet(prediction int, isUnder bool) error {
	if prediction < 1 || prediction > 99 {
		return ErrInvalidPrediction
	}
	if isUnder && prediction == 1 {
		return ErrImpossibleBet
	}
	return nil
}

// WinChance returns the winning probability in whole percent. An under
// bet wins on rolls strictly below the prediction, an over bet on rolls
// strictly above it.
func WinChance(prediction int, isUnder bool) int {
	if isUnder {
		return prediction - 1
	}
	return 100 - prediction
}

// Multiplier derives the payout multiplier from the win chance, rounded
// to 2 decimals. Lower chance, higher multiplier.
func Multiplier(prediction int, isUnder bool) float64 {
	chance := WinChance(prediction, isUnder)
	return math.Round(100.0/float64(chance)*100) / 100
}

// IsWin reports whether the roll beats the prediction
func IsWin(roll, prediction int, isUnder bool) bool {
	if isUnder {
		return roll < prediction
	}
	return roll > prediction
}
