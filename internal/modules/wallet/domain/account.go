// Package domain defines the wallet module's core types. Balances are held
// as integer cents; floats exist only at the HTTP boundary.
package domain

import (
	"errors"
	"math"
	"time"
)

// Wallet errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// Account holds a user's balance ledger entry
type Account struct {
	UserID       int64     `json:"user_id" gorm:"primaryKey;column:user_id"`
	Balance      int64     `json:"balance" gorm:"column:balance;not null"` // cents
	VIPLevel     int       `json:"vip_level" gorm:"column:vip_level;not null;default:0"`
	TotalWagered int64     `json:"total_wagered" gorm:"column:total_wagered;not null;default:0"` // cents
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the table name
func (Account) TableName() string {
	return "accounts"
}

// Transaction types
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
)

// Transaction statuses
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction represents a completed deposit or withdrawal
type Transaction struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    int64     `json:"user_id" gorm:"not null;index:idx_transactions_user_id"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null"`
	Amount    int64     `json:"amount" gorm:"not null"` // cents
	Status    string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_transactions_created_at"`
}

// TableName overrides the table name
func (Transaction) TableName() string {
	return "transactions"
}

// VIP level thresholds: one level per 1000.00 wagered, capped at 10.
const (
	vipStepCents = 100000
	vipMaxLevel  = 10
)

// VIPLevelFor derives the cosmetic VIP level from accumulated wagering.
func VIPLevelFor(totalWagered int64) int {
	level := int(totalWagered / vipStepCents)
	if level > vipMaxLevel {
		return vipMaxLevel
	}
	return level
}

// Cents converts a currency amount to integer cents, rounding half away
// from zero.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Amount converts integer cents back to a currency amount.
func Amount(cents int64) float64 {
	return float64(cents) / 100
}

// MulCents applies a multiplier to a cent amount, rounding once.
func MulCents(cents int64, multiplier float64) int64 {
	return int64(math.Round(float64(cents) * multiplier))
}
