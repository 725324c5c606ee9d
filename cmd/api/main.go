package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/veloxevents/doorman/internal/config"
	"github.com/veloxevents/doorman/internal/database"
	"github.com/veloxevents/doorman/internal/logger"
	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/scheduler"
	"github.com/veloxevents/doorman/internal/server"
	"github.com/veloxevents/doorman/internal/services"
	"github.com/veloxevents/doorman/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to stdout and a rotated file
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatalf("ensure log directory: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "doorman.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(!cfg.IsProduction(), io.MultiWriter(os.Stdout, rotator))

	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		resetPassword(cfg)
		return
	}

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
		"env":     cfg.Environment,
	}).Infof("starting %s backend", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Log().WithError(err).Warn("failed to close database")
		}
	}()

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	audit := services.NewAuditService(db)
	notifier := services.NewNotificationService(cfg.NotifyURLs)
	sched := scheduler.New(services.NewEventService(db, audit), notifier)
	if err := sched.Start(); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// resetPassword handles the `doorman reset-password <email> <new-password>`
// CLI path for locked-out admins.
func resetPassword(cfg config.Config) {
	if len(os.Args) != 4 {
		log.Fatalf("Usage: %s reset-password <email> <new-password>", os.Args[0])
	}
	email := os.Args[2]
	newPassword := os.Args[3]

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close(db)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Unlock account if locked
	user.LockedUntil = nil
	user.FailedLoginAttempts = 0

	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("failed to save user: %v", err)
	}

	log.Printf("Password updated successfully for user %s", email)
}
