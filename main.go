package main

import (
	"fmt"
	"log/slog"
	"os"

	"contract-registry/api/handler"
	"contract-registry/api/router"
	"contract-registry/config"
	"contract-registry/job"
	"contract-registry/mail"
	"contract-registry/service"
	"contract-registry/storage/postgres"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		panic(err)
	}
	initLogger(cfg.Log)

	// 1. Database
	db, err := postgres.InitDB(cfg.Database.DSN())
	if err != nil {
		panic(err)
	}
	if err := postgres.Migrate(db); err != nil {
		panic(err)
	}

	recordRepo := postgres.NewRecordRepo(db)
	notifyRepo := postgres.NewNotifyRepo(db)

	// 2. Mail collaborator
	var sender mail.Sender
	if cfg.SMTP.DryRun {
		sender = mail.LogSender{}
	} else {
		sender = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	// 3. Lifecycle engine
	resolver := service.NewRecipientResolver(notifyRepo)
	notifier := service.NewNotifier(resolver, sender)
	renewal := service.NewRenewalProcessor(recordRepo, service.NewProtocolAllocator(), "lifecycle-engine")
	scanner := service.NewScanner(recordRepo, renewal, notifier, "lifecycle-engine")

	// 4. Scheduler
	if _, err := job.StartCronJob(&cfg.Scheduler, scanner); err != nil {
		panic(err)
	}

	// 5. Web server
	r := gin.Default()
	router.RegisterRoutes(r, cfg.Auth.JWTSecret,
		handler.NewAuthHandler(cfg),
		handler.NewRecordHandler(recordRepo),
		handler.NewRuleHandler(notifyRepo),
		handler.NewJobHandler(scanner))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
