// Package db provides the gorm-backed game history repository.
package db

import (
	"context"
	"fmt"

	"github.com/9yuq/nexus/internal/modules/history/domain"
	"gorm.io/gorm"
)

// Repository implements domain.Repository on gorm
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new history repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends a history record
func (r *Repository) Create(ctx context.Context, record *domain.GameHistory) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create history record: %w", err)
	}
	return nil
}

// ListByUser returns a user's settled bets, newest first
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.GameHistory, error) {
	var records []*domain.GameHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// ListRecent returns the latest settled bets across all users, newest first
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.GameHistory, error) {
	var records []*domain.GameHistory
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent history: %w", err)
	}
	return records, nil
}
