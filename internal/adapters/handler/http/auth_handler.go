package http

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

const invalidLoginMessage = "Please enter a correct username and password."

// CookieConfig controls the attributes of the auth cookies.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type AuthHandler struct {
	authService ports.AuthService
	renderer    *Renderer
	logger      *zap.Logger
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, renderer *Renderer, logger *zap.Logger, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		renderer:    renderer,
		logger:      logger,
		cookies:     cookies.withDefaults(),
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "login", page{
		Title: "Log in",
		Next:  r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	accessToken, refreshToken, err := h.authService.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.Error("login failed", zap.String("username", username), zap.Error(err))
		}
		h.renderer.HTML(w, r, http.StatusOK, "login", page{
			Title:        "Log in",
			Next:         next,
			Username:     username,
			ErrorMessage: invalidLoginMessage,
		})
		return
	}

	h.cookies.setAccessToken(w, accessToken)
	h.cookies.setRefreshToken(w, refreshToken)

	http.Redirect(w, r, safeRedirect(next), http.StatusSeeOther)
}

// Refresh godoc
// @Summary      Refreshes the access token
// @Description  Creates a new access token cookie based on the refresh token cookie.
// @Tags         auth
// @Success      200
// @Failure      401
// @Failure      500
// @Router       /accounts/refresh/ [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshAccessToken(r.Context(), cookie.Value)
	if errors.Is(err, domain.ErrInvalidToken) {
		h.cookies.expire(w)
		writeError(w, http.StatusUnauthorized, "Refresh failed")
		return
	}
	if err != nil {
		h.logger.Error("refresh failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	h.cookies.setAccessToken(w, accessToken)
	if refreshToken != "" && refreshToken != cookie.Value {
		h.cookies.setRefreshToken(w, refreshToken)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout revokes the refresh token and clears both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to revoke refresh token", zap.Error(err))
		}
	}

	h.cookies.expire(w)
	http.Redirect(w, r, MustReverse(RouteIndex), http.StatusSeeOther)
}

func (c CookieConfig) withDefaults() CookieConfig {
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

func (c CookieConfig) setAccessToken(w http.ResponseWriter, token string) {
	c.set(w, accessTokenCookie, token, int(services.AccessTokenTTL.Seconds()))
}

func (c CookieConfig) setRefreshToken(w http.ResponseWriter, token string) {
	c.set(w, refreshTokenCookie, token, int(services.RefreshTokenTTL.Seconds()))
}

func (c CookieConfig) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		MaxAge:   maxAge,
	})
}

func (c CookieConfig) expire(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, MaxAge: -1, Path: "/", Domain: c.Domain})
	}
}

// safeRedirect only follows local paths; anything else lands on the index.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return MustReverse(RouteIndex)
	}
	return next
}
