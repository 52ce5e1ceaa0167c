// Package redis implements the crash bet store on Redis, for deployments
// that want open bets to survive a process restart.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/redis/go-redis/v9"
)

// BetRepository implements domain.BetRepository using Redis. Each open bet
// lives in its own string key so Claim maps onto GETDEL, which removes and
// returns in one server-side step. A per-round set indexes the members.
type BetRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBetRepository creates a new Redis bet repository
func NewBetRepository(rdb *redis.Client) *BetRepository {
	return &BetRepository{
		rdb: rdb,
		ttl: 24 * time.Hour, // Keep finished-round leftovers for 24 hours
	}
}

func betKey(roundID string, userID int64) string {
	return fmt.Sprintf("crash_bet:%s:%d", roundID, userID)
}

func membersKey(roundID string) string {
	return fmt.Sprintf("crash_bettors:%s", roundID)
}

// Save stores a new bet, rejecting duplicates within the round
func (r *BetRepository) Save(ctx context.Context, bet *domain.Bet) error {
	data, err := json.Marshal(bet)
	if err != nil {
		return err
	}

	// SETNX on the per-user key enforces one bet per user per round.
	ok, err := r.rdb.SetNX(ctx, betKey(bet.RoundID, bet.UserID), data, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBetAlreadyPlaced
	}

	pipe := r.rdb.Pipeline()
	pipe.SAdd(ctx, membersKey(bet.RoundID), bet.UserID)
	pipe.Expire(ctx, membersKey(bet.RoundID), r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Get returns the user's open bet, or nil when none exists
func (r *BetRepository) Get(ctx context.Context, roundID string, userID int64) (*domain.Bet, error) {
	data, err := r.rdb.Get(ctx, betKey(roundID, userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var bet domain.Bet
	if err := json.Unmarshal([]byte(data), &bet); err != nil {
		return nil, err
	}
	return &bet, nil
}

// List returns all open bets for the round
func (r *BetRepository) List(ctx context.Context, roundID string) ([]*domain.Bet, error) {
	userIDs, err := r.rdb.SMembers(ctx, membersKey(roundID)).Result()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []*domain.Bet{}, nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, fmt.Sprintf("crash_bet:%s:%s", roundID, id))
	}

	dataList, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	bets := make([]*domain.Bet, 0, len(dataList))
	for _, data := range dataList {
		if data == nil {
			// Already claimed, member set lags behind
			continue
		}
		strData, ok := data.(string)
		if !ok {
			continue
		}
		var bet domain.Bet
		if err := json.Unmarshal([]byte(strData), &bet); err != nil {
			continue
		}
		bets = append(bets, &bet)
	}
	return bets, nil
}

// Claim atomically removes and returns the user's open bet
func (r *BetRepository) Claim(ctx context.Context, roundID string, userID int64) (*domain.Bet, error) {
	data, err := r.rdb.GetDel(ctx, betKey(roundID, userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNoActiveBet
		}
		return nil, err
	}

	// Index cleanup is best-effort: List tolerates stale members.
	r.rdb.SRem(ctx, membersKey(roundID), userID)

	var bet domain.Bet
	if err := json.Unmarshal([]byte(data), &bet); err != nil {
		return nil, err
	}
	return &bet, nil
}

// Clear drops all bookkeeping for a finished round
func (r *BetRepository) Clear(ctx context.Context, roundID string) error {
	userIDs, err := r.rdb.SMembers(ctx, membersKey(roundID)).Result()
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	for _, id := range userIDs {
		pipe.Del(ctx, fmt.Sprintf("crash_bet:%s:%s", roundID, id))
	}
	pipe.Del(ctx, membersKey(roundID))
	_, err = pipe.Exec(ctx)
	return err
}
