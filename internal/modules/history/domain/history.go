// Package domain defines the append-only game history log.
package domain

import (
	"context"
	"time"
)

// Game type identifiers shared across modules
const (
	GameTypeCrash = "crash"
	GameTypeDice  = "dice"
	GameTypeSlots = "slots"
)

// GameHistory is one settled bet. Records are never mutated or deleted.
type GameHistory struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     int64     `json:"user_id" gorm:"not null;index:idx_game_history_user_id"`
	GameType   string    `json:"game_type" gorm:"type:varchar(16);not null"`
	BetAmount  int64     `json:"bet_amount" gorm:"not null"` // cents
	Multiplier float64   `json:"multiplier" gorm:"not null"`
	Payout     int64     `json:"payout" gorm:"not null"` // cents
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_game_history_created_at"`
}

// TableName overrides the table name
func (GameHistory) TableName() string {
	return "game_history"
}

// RecentBet is a history record joined with its bettor's username, for the
// lobby feed.
type RecentBet struct {
	GameHistory
	Username string `json:"username"`
}

// Repository persists game history
type Repository interface {
	Create(ctx context.Context, record *GameHistory) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*GameHistory, error)
	ListRecent(ctx context.Context, limit int) ([]*GameHistory, error)
}
