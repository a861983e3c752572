package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
	"github.com/vncsmyrnk/polls/internal/logger"
)

func main() {
	var username, email, password string
	flag.StringVar(&username, "username", "", "Username")
	flag.StringVar(&email, "email", "", "Email address")
	flag.StringVar(&password, "password", "", "Password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	userSvc := services.NewUserService(postgres.NewUserRepository(db))
	user, err := userSvc.Register(ctx, username, email, password)
	if err != nil {
		log.Fatal("create user", zap.String("username", username), zap.Error(err))
	}

	log.Info("user created", zap.String("username", user.Username), zap.Stringer("id", user.ID))
}
