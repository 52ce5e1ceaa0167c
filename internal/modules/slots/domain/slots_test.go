package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawBoundaries(t *testing.T) {
	assert.Equal(t, 0, Draw(0))
	assert.Equal(t, 0, Draw(39))
	assert.Equal(t, 1, Draw(40))
	assert.Equal(t, 1, Draw(69))
	assert.Equal(t, 2, Draw(70))
	assert.Equal(t, 2, Draw(84))
	assert.Equal(t, 3, Draw(85))
	assert.Equal(t, 3, Draw(94))
	assert.Equal(t, 4, Draw(95))
	assert.Equal(t, 4, Draw(99))

	// Out-of-range rolls fall through to the last symbol.
	assert.Equal(t, 4, Draw(100))
	assert.Equal(t, 4, Draw(1000))
}

func TestDrawFrequencies(t *testing.T) {
	const spins = 100000
	rnd := rand.New(rand.NewSource(42))
	total := TotalWeight()

	var counts [SymbolCount]int
	for i := 0; i < spins; i++ {
		counts[Draw(rnd.Intn(total))]++
	}

	for symbol, weight := range Weights {
		expected := float64(weight) / float64(total)
		observed := float64(counts[symbol]) / float64(spins)
		assert.InDelta(t, expected, observed, 0.01, "symbol %d", symbol)
	}
}

func TestPaylineTriple(t *testing.T) {
	assert.Equal(t, 1.5, Payline([3]int{0, 0, 0})) // 0.5 * 3
	assert.Equal(t, 3.0, Payline([3]int{1, 1, 1}))
	assert.Equal(t, 4.5, Payline([3]int{2, 2, 2}))
	assert.Equal(t, 9.0, Payline([3]int{3, 3, 3}))
	assert.Equal(t, 30.0, Payline([3]int{4, 4, 4}))
}

func TestPaylinePair(t *testing.T) {
	assert.Equal(t, 0.75, Payline([3]int{0, 0, 3})) // 0.5 * 1.5
	assert.Equal(t, 1.5, Payline([3]int{2, 1, 1}))  // middle pair pays symbol 1
	assert.Equal(t, 2.25, Payline([3]int{2, 1, 2})) // outer pair pays symbol 2
	assert.Equal(t, 15.0, Payline([3]int{4, 0, 4}))
}

func TestPaylineMatchedSymbolPrecedence(t *testing.T) {
	// Leading pair wins over a trailing overlap candidate.
	assert.Equal(t, Payline([3]int{3, 3, 1}), BaseMultipliers[3]*PairFactor)
	assert.Equal(t, Payline([3]int{1, 4, 4}), BaseMultipliers[4]*PairFactor)
}

func TestPaylineNoMatch(t *testing.T) {
	assert.Equal(t, 0.0, Payline([3]int{0, 1, 2}))
	assert.Equal(t, 0.0, Payline([3]int{4, 2, 0}))
}
