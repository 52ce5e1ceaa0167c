// Package usecase implements registration, login, and token handling.
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/9yuq/nexus/internal/modules/user/domain"
	"github.com/9yuq/nexus/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 7 * 24 * time.Hour

// AccountOpener provisions the wallet for a new user. Implemented by the
// wallet use case.
type AccountOpener interface {
	OpenAccount(ctx context.Context, userID int64, initialBalance int64) error
}

// UserUseCase handles registration, authentication, and sessions
type UserUseCase struct {
	userRepo       domain.UserRepository
	sessionRepo    domain.SessionRepository
	accounts       AccountOpener
	initialBalance int64 // cents, granted at registration
	jwtSecret      []byte
	tokenDuration  time.Duration
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	accounts AccountOpener,
	initialBalance int64,
	jwtSecret string,
	tokenDuration time.Duration,
) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		accounts:       accounts,
		initialBalance: initialBalance,
		jwtSecret:      []byte(jwtSecret),
		tokenDuration:  tokenDuration,
	}
}

// Register creates a new user and opens their wallet with the starting
// balance. Returns the new user ID.
func (uc *UserUseCase) Register(ctx context.Context, username, password, email string) (int64, error) {
	if username == "" || password == "" || email == "" {
		return 0, domain.ErrMissingField
	}
	if len(password) < 6 {
		return 0, domain.ErrWeakPassword
	}

	exists, err := uc.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return 0, domain.ErrUsernameTaken
	}

	exists, err = uc.userRepo.EmailExists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return 0, domain.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Email:        email,
		Status:       domain.UserStatusActive,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.accounts.OpenAccount(ctx, user.UserID, uc.initialBalance); err != nil {
		return 0, fmt.Errorf("failed to open account: %w", err)
	}

	logger.Info(ctx).
		Int64("user_id", user.UserID).
		Str("username", username).
		Msg("User registered")

	return user.UserID, nil
}

// Login authenticates a user and returns the user ID, access token,
// refresh token, and access token expiry.
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (int64, string, string, time.Time, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, "", "", time.Time{}, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return 0, "", "", time.Time{}, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, "", "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.generateToken(user.UserID, user.Username)
	if err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := uc.generateRefreshToken()
	if err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &domain.Session{
		SessionID: refreshToken,
		UserID:    user.UserID,
		Token:     token,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	_ = uc.userRepo.UpdateLastLogin(ctx, user.UserID)

	return user.UserID, token, refreshToken, expiresAt, nil
}

// ValidateToken verifies a JWT access token and returns its claims
func (uc *UserUseCase) ValidateToken(ctx context.Context, tokenString string) (int64, string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", time.Time{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", time.Time{}, domain.ErrInvalidToken
	}

	userIDClaim, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", time.Time{}, domain.ErrInvalidToken
	}
	usernameClaim, ok := claims["username"].(string)
	if !ok {
		return 0, "", time.Time{}, domain.ErrInvalidToken
	}
	expClaim, ok := claims["exp"].(float64)
	if !ok {
		return 0, "", time.Time{}, domain.ErrInvalidToken
	}

	return int64(userIDClaim), usernameClaim, time.Unix(int64(expClaim), 0), nil
}

// Logout invalidates the session behind an access token
func (uc *UserUseCase) Logout(ctx context.Context, token string) error {
	return uc.sessionRepo.DeleteByToken(ctx, token)
}

// RefreshToken issues a new access token from a refresh token
func (uc *UserUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, string, time.Time, error) {
	session, err := uc.sessionRepo.GetBySessionID(ctx, refreshToken)
	if err != nil {
		return "", "", time.Time{}, domain.ErrInvalidToken
	}

	if time.Now().After(session.ExpiresAt) {
		_ = uc.sessionRepo.Delete(ctx, session.SessionID)
		return "", "", time.Time{}, domain.ErrSessionExpired
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return "", "", time.Time{}, domain.ErrUserNotFound
	}
	if !user.IsActive() {
		return "", "", time.Time{}, domain.ErrUserInactive
	}

	newToken, expiresAt, err := uc.generateToken(user.UserID, user.Username)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	session.Token = newToken
	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to update session: %w", err)
	}

	return newToken, refreshToken, expiresAt, nil
}

// GetProfile returns the caller's own user record. The password hash is
// excluded from JSON serialization at the model level.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// GetUsername resolves a user ID to its display name. Serves the lobby's
// recent-bets feed.
func (uc *UserUseCase) GetUsername(ctx context.Context, userID int64) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (uc *UserUseCase) generateToken(userID int64, username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(uc.tokenDuration)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (uc *UserUseCase) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
