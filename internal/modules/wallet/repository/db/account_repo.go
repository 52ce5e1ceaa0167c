// Package db provides gorm-backed wallet repositories.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"gorm.io/gorm"
)

// AccountRepository implements domain.AccountRepository on gorm. Balance
// mutations are conditional UPDATEs so the balance check and the write are
// one statement; no read-then-write window exists.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Get retrieves an account by user ID
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Credit adds amount to the balance
func (r *AccountRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	var newBalance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Account{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return tx.Model(&domain.Account{}).
			Where("user_id = ?", userID).
			Pluck("balance", &newBalance).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to credit account: %w", err)
	}
	return newBalance, nil
}

// Debit subtracts amount iff the balance covers it
func (r *AccountRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	var newBalance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Account{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.classifyMiss(tx, userID)
		}
		return tx.Model(&domain.Account{}).
			Where("user_id = ?", userID).
			Pluck("balance", &newBalance).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrInsufficientBalance) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to debit account: %w", err)
	}
	return newBalance, nil
}

// ApplyBet atomically debits the stake and credits the payout
func (r *AccountRepository) ApplyBet(ctx context.Context, userID int64, stake, payout int64) (int64, error) {
	var newBalance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Account{}).
			Where("user_id = ? AND balance >= ?", userID, stake).
			Updates(map[string]interface{}{
				"balance":       gorm.Expr("balance - ? + ?", stake, payout),
				"total_wagered": gorm.Expr("total_wagered + ?", stake),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.classifyMiss(tx, userID)
		}

		var account domain.Account
		if err := tx.First(&account, "user_id = ?", userID).Error; err != nil {
			return err
		}

		if level := domain.VIPLevelFor(account.TotalWagered); level != account.VIPLevel {
			if err := tx.Model(&domain.Account{}).
				Where("user_id = ?", userID).
				Update("vip_level", level).Error; err != nil {
				return err
			}
		}

		newBalance = account.Balance
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrInsufficientBalance) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to apply bet: %w", err)
	}
	return newBalance, nil
}

// classifyMiss distinguishes a missing account from an insufficient balance
// after a conditional update touched zero rows.
func (r *AccountRepository) classifyMiss(tx *gorm.DB, userID int64) error {
	var count int64
	if err := tx.Model(&domain.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrAccountNotFound
	}
	return domain.ErrInsufficientBalance
}
