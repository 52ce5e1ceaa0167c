// Package domain defines the slot machine's reels and paytable.
package domain

import "errors"

// Slots errors
var (
	ErrInvalidAmount = errors.New("bet amount must be positive")
)

// SymbolCount is the number of distinct reel symbols
const SymbolCount = 5

// Reel weights and base multipliers, indexed by symbol. Rarer symbols pay
// more.
var (
	Weights         = [SymbolCount]int{40, 30, 15, 10, 5}
	BaseMultipliers = [SymbolCount]float64{0.5, 1, 1.5, 3, 10}
)

// Payline outcome multiplier factors
const (
	TripleFactor = 3.0
	PairFactor   = 1.5
)

// TotalWeight is the sum of all reel weights
func TotalWeight() int {
	total := 0
	for _, w := range Weights {
		total += w
	}
	return total
}

// Draw maps a roll in [0, TotalWeight()) onto a symbol via cumulative
// weights. Out-of-range rolls land on the last symbol.
func Draw(roll int) int {
	cumulative := 0
	for symbol, w := range Weights {
		cumulative += w
		if roll < cumulative {
			return symbol
		}
	}
	return SymbolCount - 1
}

// Payline evaluates three reels and returns the payout multiplier, or 0
// when nothing lines up. A triple pays the symbol's base times 3; a pair
// pays the matched symbol's base times 1.5.
func Payline(reels [3]int) float64 {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return BaseMultipliers[reels[0]] * TripleFactor
	}

	switch {
	case reels[0] == reels[1]:
		return BaseMultipliers[reels[0]] * PairFactor
	case reels[1] == reels[2]:
		return BaseMultipliers[reels[1]] * PairFactor
	case reels[0] == reels[2]:
		return BaseMultipliers[reels[0]] * PairFactor
	}
	return 0
}
