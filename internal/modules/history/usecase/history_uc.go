// Package usecase implements game history queries and the settlement log.
package usecase

import (
	"context"
	"fmt"

	"github.com/9yuq/nexus/internal/modules/history/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// UsernameResolver looks up display names for the recent-bets feed
type UsernameResolver interface {
	GetUsername(ctx context.Context, userID int64) (string, error)
}

// HistoryUseCase handles the append-only settlement log
type HistoryUseCase struct {
	repo     domain.Repository
	resolver UsernameResolver
	group    singleflight.Group
}

// NewHistoryUseCase creates a new history use case
func NewHistoryUseCase(repo domain.Repository, resolver UsernameResolver) *HistoryUseCase {
	return &HistoryUseCase{
		repo:     repo,
		resolver: resolver,
	}
}

// Append writes one settled bet to the log
func (uc *HistoryUseCase) Append(ctx context.Context, record *domain.GameHistory) error {
	if err := uc.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// GetUserHistory returns a user's settled bets, newest first
func (uc *HistoryUseCase) GetUserHistory(ctx context.Context, userID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.repo.ListByUser(ctx, userID, limit)
}

// GetRecentBets returns the lobby feed: latest settled bets across all
// users with usernames attached. Concurrent identical reads are collapsed
// through singleflight since every lobby client polls this.
func (uc *HistoryUseCase) GetRecentBets(ctx context.Context, limit int) ([]*domain.RecentBet, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	v, err, _ := uc.group.Do(fmt.Sprintf("recent:%d", limit), func() (interface{}, error) {
		records, err := uc.repo.ListRecent(ctx, limit)
		if err != nil {
			return nil, err
		}

		feed := make([]*domain.RecentBet, 0, len(records))
		for _, record := range records {
			username := "Unknown"
			if uc.resolver != nil {
				if name, err := uc.resolver.GetUsername(ctx, record.UserID); err == nil {
					username = name
				} else {
					logger.Warn(ctx).Err(err).Int64("user_id", record.UserID).Msg("Failed to resolve username for feed")
				}
			}
			feed = append(feed, &domain.RecentBet{
				GameHistory: *record,
				Username:    username,
			})
		}
		return feed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.RecentBet), nil
}
