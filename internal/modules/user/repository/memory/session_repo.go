package memory

import (
	"context"
	"sync"
	"time"

	"github.com/9yuq/nexus/internal/modules/user/domain"
)

// SessionRepository keeps sessions in process memory
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewSessionRepository creates a new in-memory session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

// GetBySessionID retrieves a session by session ID
func (r *SessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	copied := *session
	return &copied, nil
}

// Update updates the token and expiry of a session
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.SessionID]
	if !ok {
		return domain.ErrInvalidToken
	}
	stored.Token = session.Token
	stored.ExpiresAt = session.ExpiresAt
	return nil
}

// Delete deletes a session
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// DeleteByToken deletes sessions by access token
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.Token == token {
			delete(r.sessions, id)
		}
	}
	return nil
}

// DeleteExpired deletes expired sessions
func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}
