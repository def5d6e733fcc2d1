package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"modbot/bot"
	"modbot/config"
	"modbot/handlers"
	"modbot/utils/database/infractions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}
	config.SetupLogging(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), os.ModePerm); err != nil {
		logrus.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := infractions.Init(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Error initializing database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		logrus.Fatalf("Error creating bot: %v", err)
	}
	defer b.Close()

	handlers.Register(b)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if err := b.Run(ctx); err != nil {
		logrus.WithError(err).Error("Bot stopped with an error")
	}
}
