package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports/portstest"
)

func setupAuth(t *testing.T) (*AuthService, *portstest.AuthRepo, *domain.User) {
	t.Helper()
	users := NewUserService(portstest.NewUserRepo())
	user, err := users.Register(context.Background(), "test", "admin@gmail.com", "prueba123")
	require.NoError(t, err)

	authRepo := portstest.NewAuthRepo()
	return NewAuthService(users, authRepo, "test-secret"), authRepo, user
}

func TestLogin(t *testing.T) {
	auth, _, user := setupAuth(t)

	accessToken, refreshToken, err := auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	userID, err := auth.ParseAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth, _, _ := setupAuth(t)

	_, _, err := auth.Login(context.Background(), "test", "nope-nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	auth, _, user := setupAuth(t)
	_, refreshToken, err := auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)

	accessToken, sameRefresh, err := auth.RefreshAccessToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.Equal(t, refreshToken, sameRefresh)

	userID, err := auth.ParseAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, _, err = auth.RefreshAccessToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	auth, _, _ := setupAuth(t)
	_, refreshToken, err := auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)

	auth.now = func() time.Time { return time.Now().Add(RefreshTokenTTL + time.Hour) }

	_, _, err = auth.RefreshAccessToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshAccessToken_StorageError(t *testing.T) {
	auth, repo, _ := setupAuth(t)
	_, refreshToken, err := auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)

	repo.Fail(errors.New("connection refused"))
	_, _, err = auth.RefreshAccessToken(context.Background(), refreshToken)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewRefreshToken(t *testing.T) {
	token, hash := newRefreshToken()
	other, _ := newRefreshToken()

	assert.Len(t, token, 43)
	assert.NotContains(t, token, "=")
	assert.NotEqual(t, token, other)
	assert.Equal(t, refreshTokenHash(token), hash)
	assert.Len(t, hash, 64)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	auth, _, _ := setupAuth(t)
	_, refreshToken, err := auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), refreshToken))

	_, _, err = auth.RefreshAccessToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	assert.NoError(t, auth.Logout(context.Background(), "unknown"))
}

func TestParseAccessToken_Rejects(t *testing.T) {
	auth, _, user := setupAuth(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ParseAccessToken(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err = wrongKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = auth.ParseAccessToken(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err = badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	id, err := auth.ParseAccessToken(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, uuid.Nil, id)
}
