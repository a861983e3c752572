package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
	"github.com/vncsmyrnk/polls/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	questionRepo := postgres.NewQuestionRepository(db)
	choiceRepo := postgres.NewChoiceRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	questionSvc := services.NewQuestionService(questionRepo, nil)
	voteSvc := services.NewVoteService(questionRepo, choiceRepo, nil)
	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userSvc, authRepo, cfg.Auth.JWTSecret)

	renderer, err := http.NewRenderer(log)
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}

	cookies := http.CookieConfig{
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
	}

	handler := http.NewHandler(http.Handlers{
		Questions:   http.NewQuestionHandler(questionSvc, renderer, log),
		Votes:       http.NewVoteHandler(questionSvc, voteSvc, renderer, log),
		Auth:        http.NewAuthHandler(authSvc, renderer, log, cookies),
		Users:       http.NewUserHandler(userSvc, log),
		API:         http.NewQuestionAPIHandler(questionSvc, log, nil),
		AuthService: authSvc,
		Cookies:     cookies,
		Renderer:    renderer,
		Logger:      log,
	})

	server := &stdhttp.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown", zap.Error(err))
	}
}
