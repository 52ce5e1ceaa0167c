package db

import (
	"context"
	"fmt"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"gorm.io/gorm"
)

// TransactionRepository implements domain.TransactionRepository on gorm
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a transaction record
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListByUser returns a user's transactions, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
