package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/9yuq/nexus/internal/modules/history/domain"
	"github.com/9yuq/nexus/internal/modules/history/repository/memory"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

type staticResolver struct {
	names map[int64]string
}

func (r *staticResolver) GetUsername(ctx context.Context, userID int64) (string, error) {
	name, ok := r.names[userID]
	if !ok {
		return "", errors.New("unknown user")
	}
	return name, nil
}

func seedRecords(t *testing.T, uc *HistoryUseCase, userID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := uc.Append(context.Background(), &domain.GameHistory{
			UserID:     userID,
			GameType:   domain.GameTypeDice,
			BetAmount:  1000,
			Multiplier: 2.00,
			Payout:     int64(i * 100),
		})
		require.NoError(t, err)
	}
}

func TestGetUserHistoryNewestFirst(t *testing.T) {
	uc := NewHistoryUseCase(memory.NewRepository(), nil)
	seedRecords(t, uc, 1, 5)
	seedRecords(t, uc, 2, 3)

	records, err := uc.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Newest first: the last appended record leads.
	assert.Equal(t, int64(400), records[0].Payout)
	for _, record := range records {
		assert.Equal(t, int64(1), record.UserID)
	}
}

func TestGetUserHistoryLimit(t *testing.T) {
	uc := NewHistoryUseCase(memory.NewRepository(), nil)
	seedRecords(t, uc, 1, 30)

	records, err := uc.GetUserHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, records, 10)

	// Out-of-range limits fall back to the default of 20.
	records, err = uc.GetUserHistory(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, records, 20)

	records, err = uc.GetUserHistory(context.Background(), 1, 500)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestGetRecentBetsResolvesUsernames(t *testing.T) {
	resolver := &staticResolver{names: map[int64]string{1: "alice"}}
	uc := NewHistoryUseCase(memory.NewRepository(), resolver)
	seedRecords(t, uc, 1, 2)
	seedRecords(t, uc, 99, 1) // no username on file

	feed, err := uc.GetRecentBets(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	byUser := make(map[int64]string)
	for _, bet := range feed {
		byUser[bet.UserID] = bet.Username
	}
	assert.Equal(t, "alice", byUser[1])
	assert.Equal(t, "Unknown", byUser[99])
}

func TestGetRecentBetsAcrossUsers(t *testing.T) {
	uc := NewHistoryUseCase(memory.NewRepository(), nil)
	for i := int64(1); i <= 15; i++ {
		err := uc.Append(context.Background(), &domain.GameHistory{
			UserID:   i,
			GameType: domain.GameTypeSlots,
		})
		require.NoError(t, err)
	}

	feed, err := uc.GetRecentBets(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, feed, 10) // default limit

	// Latest bettor appears first.
	assert.Equal(t, int64(15), feed[0].UserID)
}
