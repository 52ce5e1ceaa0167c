package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBet(t *testing.T) {
	assert.NoError(t, ValidateBet(50, true))
	assert.NoError(t, ValidateBet(2, true))
	assert.NoError(t, ValidateBet(98, false))
	assert.NoError(t, ValidateBet(1, false))
	assert.NoError(t, ValidateBet(99, true))
	// Over 99 pays 100x on the maximum roll, a legal long shot.
	assert.NoError(t, ValidateBet(99, false))

	assert.ErrorIs(t, ValidateBet(0, true), ErrInvalidPrediction)
	assert.ErrorIs(t, ValidateBet(100, false), ErrInvalidPrediction)
	assert.ErrorIs(t, ValidateBet(-5, true), ErrInvalidPrediction)

	// Under 1 has no winning roll
	assert.ErrorIs(t, ValidateBet(1, true), ErrImpossibleBet)
}

func TestWinChance(t *testing.T) {
	assert.Equal(t, 47, WinChance(48, true))
	assert.Equal(t, 52, WinChance(48, false))
	assert.Equal(t, 1, WinChance(2, true))
	assert.Equal(t, 1, WinChance(99, false))
	assert.Equal(t, 98, WinChance(99, true))
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, 2.13, Multiplier(48, true))  // 100/47
	assert.Equal(t, 1.92, Multiplier(48, false)) // 100/52
	assert.Equal(t, 2.00, Multiplier(51, true))  // 100/50
	assert.Equal(t, 100.00, Multiplier(2, true))
	assert.Equal(t, 100.00, Multiplier(99, false))
	assert.Equal(t, 1.02, Multiplier(99, true)) // 100/98
}

func TestIsWin(t *testing.T) {
	assert.True(t, IsWin(20, 48, true))
	assert.False(t, IsWin(48, 48, true)) // exact roll loses
	assert.False(t, IsWin(80, 48, true))

	assert.True(t, IsWin(80, 48, false))
	assert.False(t, IsWin(48, 48, false))
	assert.False(t, IsWin(20, 48, false))
}
