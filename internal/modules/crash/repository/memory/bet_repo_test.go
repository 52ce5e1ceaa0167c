package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRejectsDuplicate(t *testing.T) {
	repo := NewBetRepository()
	ctx := context.Background()

	bet := domain.NewBet("r1", 1, 1000, 0)
	require.NoError(t, repo.Save(ctx, bet))

	again := domain.NewBet("r1", 1, 2000, 0)
	assert.ErrorIs(t, repo.Save(ctx, again), domain.ErrBetAlreadyPlaced)

	// Same user, different round is fine.
	next := domain.NewBet("r2", 1, 2000, 0)
	assert.NoError(t, repo.Save(ctx, next))
}

func TestGetAndList(t *testing.T) {
	repo := NewBetRepository()
	ctx := context.Background()

	missing, err := repo.Get(ctx, "r1", 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Save(ctx, domain.NewBet("r1", 1, 1000, 0)))
	require.NoError(t, repo.Save(ctx, domain.NewBet("r1", 2, 2000, 1.50)))

	bet, err := repo.Get(ctx, "r1", 2)
	require.NoError(t, err)
	require.NotNil(t, bet)
	assert.Equal(t, int64(2000), bet.Amount)
	assert.Equal(t, 1.50, bet.AutoPayout)

	bets, err := repo.List(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, bets, 2)
}

func TestClaimIsExclusive(t *testing.T) {
	repo := NewBetRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewBet("r1", 1, 1000, 0)))

	// A manual cashout racing the auto-cashout sweep: exactly one claim
	// wins.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Claim(ctx, "r1", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	claimed := 0
	for err := range results {
		if err == nil {
			claimed++
		} else {
			assert.ErrorIs(t, err, domain.ErrNoActiveBet)
		}
	}
	assert.Equal(t, 1, claimed)
}

func TestClear(t *testing.T) {
	repo := NewBetRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewBet("r1", 1, 1000, 0)))
	require.NoError(t, repo.Clear(ctx, "r1"))

	bets, err := repo.List(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, bets)
}
