package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type contextKey string

// UserIDKey holds the authenticated user's uuid.UUID in the request context.
const UserIDKey contextKey = "user_id"

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// RequestLogger logs one line per request through zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Authenticate resolves the access token from the cookie or a bearer header.
// Requests without a valid token pass through anonymously.
func Authenticate(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := accessToken(r); token != "" {
				if id, err := auth.ParseAccessToken(token); err == nil {
					r = withUserID(r, id)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RefreshSession keeps a session alive past the access token's lifetime.
// An anonymous request carrying a refresh token cookie gets a new access
// token cookie and continues as that user. It runs after Authenticate.
func RefreshSession(auth ports.AuthService, cookies CookieConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	cookies = cookies.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isLoggedIn(r) {
				if id, ok := refreshSession(w, r, auth, cookies, logger); ok {
					r = withUserID(r, id)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// refreshSession trades the refresh token cookie for a new access token
// cookie. A rejected refresh token clears both cookies.
func refreshSession(w http.ResponseWriter, r *http.Request, auth ports.AuthService, cookies CookieConfig, logger *zap.Logger) (uuid.UUID, bool) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}

	token, _, err := auth.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			cookies.expire(w)
		} else {
			logger.Warn("session refresh failed", zap.Error(err))
		}
		return uuid.Nil, false
	}

	id, err := auth.ParseAccessToken(token)
	if err != nil {
		logger.Error("refreshed access token rejected", zap.Error(err))
		return uuid.Nil, false
	}

	cookies.setAccessToken(w, token)
	return id, true
}

func withUserID(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserIDKey, id))
}

// LoginRequired redirects anonymous requests to the login page.
func LoginRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isLoggedIn(r) {
			target := MustReverse(RouteLogin) + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APIAuthRequired rejects anonymous requests with 401.
func APIAuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isLoggedIn(r) {
			writeError(w, http.StatusUnauthorized, "Unauthorized: missing user context")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func isLoggedIn(r *http.Request) bool {
	_, ok := userID(r)
	return ok
}

func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
