package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cruce/internal/config"
	"github.com/MrJamesThe3rd/cruce/internal/database"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "cruce-migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "goose command: up|down|status|version|redo|reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx := log.WithField(context.Background(), "cmd", *cmd)

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		log.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, *cmd, flag.Args()...); err != nil {
		log.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	log.Info(ctx, "migration finished")
}
