// Package memory provides in-memory user and session stores for tests and
// the standalone dev setup.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/9yuq/nexus/internal/modules/user/domain"
)

// UserRepository keeps users in process memory
type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
	byName map[string]*domain.User
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		byID:   make(map[int64]*domain.User),
		byName: make(map[string]*domain.User),
	}
}

// Create creates a new user, assigning its ID
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return domain.ErrUsernameTaken
	}

	user.UserID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	copied := *user
	r.byID[user.UserID] = &copied
	r.byName[user.Username] = &copied
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// UsernameExists checks if a username already exists
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byName[username]
	return ok, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// UpdateLastLogin updates the user's last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}
