package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/ports/portstest"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

type testApp struct {
	Server    *httptest.Server
	Client    *http.Client
	Questions ports.QuestionService
	Users     ports.UserService
	Auth      ports.AuthService
	Tokens    *portstest.AuthRepo
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := zap.NewNop()
	questionRepo := portstest.NewQuestionRepo()
	userRepo := portstest.NewUserRepo()
	tokenRepo := portstest.NewAuthRepo()

	questionSvc := services.NewQuestionService(questionRepo, nil)
	voteSvc := services.NewVoteService(questionRepo, questionRepo, nil)
	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userSvc, tokenRepo, "test-secret")

	renderer, err := NewRenderer(logger)
	require.NoError(t, err)

	router := NewHandler(Handlers{
		Questions:   NewQuestionHandler(questionSvc, renderer, logger),
		Votes:       NewVoteHandler(questionSvc, voteSvc, renderer, logger),
		Auth:        NewAuthHandler(authSvc, renderer, logger, CookieConfig{}),
		Users:       NewUserHandler(userSvc, logger),
		API:         NewQuestionAPIHandler(questionSvc, logger, nil),
		AuthService: authSvc,
		Renderer:    renderer,
		Logger:      logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &testApp{
		Server:    server,
		Client:    client,
		Questions: questionSvc,
		Users:     userSvc,
		Auth:      authSvc,
		Tokens:    tokenRepo,
	}
}

// createQuestion publishes a question offset by the given number of days
// (negative for the past, positive for the future).
func (app *testApp) createQuestion(t *testing.T, text string, days int) *domain.Question {
	t.Helper()
	publishedAt := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	q, err := app.Questions.Create(context.Background(), ports.CreateQuestionInput{
		Text:        text,
		PublishedAt: &publishedAt,
		Choices:     []string{"Not much", "The sky"},
	})
	require.NoError(t, err)
	return q
}

func (app *testApp) login(t *testing.T) string {
	t.Helper()
	_, err := app.Users.Register(context.Background(), "test", "admin@gmail.com", "prueba123")
	require.NoError(t, err)

	accessToken, _, err := app.Auth.Login(context.Background(), "test", "prueba123")
	require.NoError(t, err)
	return accessToken
}

func (app *testApp) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, app.Server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
	}
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
