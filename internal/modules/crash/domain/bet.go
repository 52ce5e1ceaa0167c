package domain

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Bet is one player's live bet in the current round. The stake has already
// been debited; the bet stays open until cashout or crash.
type Bet struct {
	BetID      string    `json:"bet_id"`
	RoundID    string    `json:"round_id"`
	UserID     int64     `json:"user_id"`
	Amount     int64     `json:"amount"`      // cents
	AutoPayout float64   `json:"auto_payout"` // 0 = manual cashout only
	Time       time.Time `json:"time"`
}

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	// Single-process deployment, NodeID 1 is fine.
	node, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// NewBet creates a new bet with a generated ID
func NewBet(roundID string, userID int64, amount int64, autoPayout float64) *Bet {
	once.Do(initSnowflake)
	return &Bet{
		BetID:      node.Generate().String(),
		RoundID:    roundID,
		UserID:     userID,
		Amount:     amount,
		AutoPayout: autoPayout,
		Time:       time.Now(),
	}
}
