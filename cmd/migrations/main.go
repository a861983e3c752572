package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	// No argument applies every migration.
	if len(os.Args) < 2 {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		log.Info("all migrations executed successfully")
		return
	}

	name := os.Args[1]
	if err := postgres.MigrateNamed(ctx, db, name); err != nil {
		log.Fatal("migrate", zap.String("migration", name), zap.Error(err))
	}
	log.Info("migration executed successfully", zap.String("migration", name))
}
