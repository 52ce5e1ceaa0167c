// Package domain defines users, sessions, and the auth errors.
package domain

import (
	"context"
	"errors"
	"time"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is not active")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session expired")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrMissingField       = errors.New("username, password, and email are required")
)

// User is a registered player
type User struct {
	UserID       int64      `json:"user_id" gorm:"primaryKey;column:user_id;autoIncrement"`
	Username     string     `json:"username" gorm:"column:username;unique;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Email        string     `json:"email" gorm:"column:email;unique;not null"`
	Status       int        `json:"status" gorm:"column:status;default:1"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
}

// Session backs a refresh token
type Session struct {
	SessionID string    `json:"session_id" gorm:"primaryKey;column:session_id"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;index"`
	Token     string    `json:"token" gorm:"column:token;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// User status constants
const (
	UserStatusActive    = 1
	UserStatusSuspended = 2
	UserStatusBanned    = 3
)

// IsActive checks if user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// SessionRepository persists refresh-token sessions
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
