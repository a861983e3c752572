package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// Handlers groups everything NewHandler mounts.
type Handlers struct {
	Questions   *QuestionHandler
	Votes       *VoteHandler
	Auth        *AuthHandler
	Users       *UserHandler
	API         *QuestionAPIHandler
	AuthService ports.AuthService
	Cookies     CookieConfig
	Renderer    *Renderer
	Logger      *zap.Logger
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(Authenticate(h.AuthService))

	r.NotFound(h.Renderer.NotFound)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, MustReverse(RouteIndex), http.StatusFound)
	})

	refresh := RefreshSession(h.AuthService, h.Cookies, h.Logger)

	r.Get(trim(RouteIndex), h.Questions.Index)
	r.Group(func(r chi.Router) {
		r.Use(refresh, LoginRequired)
		r.Get(trim(RouteDetail), h.Questions.Detail)
		r.Get(trim(RouteResults), h.Questions.Results)
		r.Post(trim(RouteVote), h.Votes.Vote)
	})

	r.Get(trim(RouteLogin), h.Auth.LoginForm)
	r.Post(trim(RouteLogin), h.Auth.Login)
	r.Post(trim(RouteLogout), h.Auth.Logout)
	r.Post(trim(RouteRefresh), h.Auth.Refresh)

	r.Get(trim(RouteAPIQuestions), h.API.ListQuestions)
	r.Group(func(r chi.Router) {
		r.Use(refresh, APIAuthRequired)
		r.Post(trim(RouteAPIQuestions), h.API.CreateQuestion)
		r.Get(trim(RouteAPIQuestion), h.API.GetQuestion)
		r.Get(trim(RouteAPIMe), h.Users.GetMe)
	})

	return r
}

// trim drops the trailing slash of a named route; StripSlashes removes it
// from incoming paths before routing.
func trim(name string) string {
	p := pattern(name)
	if len(p) > 1 && p[len(p)-1] == '/' {
		return p[:len(p)-1]
	}
	return p
}
