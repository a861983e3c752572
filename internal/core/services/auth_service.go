package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	users     ports.UserService
	authRepo  ports.AuthRepository
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(users ports.UserService, authRepo ports.AuthRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		authRepo:  authRepo,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, tokenHash := newRefreshToken()
	err = s.authRepo.StoreRefreshToken(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(RefreshTokenTTL),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// RefreshAccessToken issues a new access token for a live refresh token.
// The refresh token itself is returned unchanged.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	stored, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	switch {
	case stored == nil:
		return "", "", fmt.Errorf("%w: refresh token not found", domain.ErrInvalidToken)
	case stored.Revoked:
		return "", "", fmt.Errorf("%w: refresh token revoked", domain.ErrInvalidToken)
	case !s.now().Before(stored.ExpiresAt):
		return "", "", fmt.Errorf("%w: refresh token expired", domain.ErrInvalidToken)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, domain.ErrUserNotFound)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil || stored == nil {
		return err
	}
	return s.authRepo.RevokeRefreshToken(ctx, stored.ID)
}

func (s *AuthService) lookupRefreshToken(ctx context.Context, refreshToken string) (*domain.RefreshToken, error) {
	stored, err := s.authRepo.GetRefreshTokenByHash(ctx, refreshTokenHash(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return stored, nil
}

// ParseAccessToken validates an access token and returns the user id in its subject.
func (s *AuthService) ParseAccessToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	return userID, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"exp":      now.Add(AccessTokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// newRefreshToken returns an opaque token for the client and the hash
// kept in storage. crypto/rand.Read does not fail on supported platforms.
func newRefreshToken() (token, hash string) {
	var raw [32]byte
	_, _ = rand.Read(raw[:])
	token = base64.RawURLEncoding.EncodeToString(raw[:])
	return token, refreshTokenHash(token)
}

func refreshTokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
