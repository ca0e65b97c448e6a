package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/notifications"
	"github.com/travo-app/travo-server/internal/realtime"
	"github.com/travo-app/travo-server/internal/router"
	"github.com/travo-app/travo-server/pkg/config"
	"github.com/travo-app/travo-server/pkg/logger"
	"github.com/travo-app/travo-server/pkg/push"
	"github.com/travo-app/travo-server/pkg/validators"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Mobile push is optional: without FCM credentials the server still
	// delivers notifications over the WebSocket channel.
	var fcm notifications.DevicePusher
	if cfg.FCMCredentialsPath != "" {
		client, err := push.NewClient(context.Background(), cfg.FCMCredentialsPath)
		if err != nil {
			zlog.Warn("FCM initialization failed, mobile push disabled", zap.Error(err))
		} else {
			fcm = client
		}
	}

	registry := realtime.NewRegistry(zlog)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	if err := router.SetupRoutes(e, db, cfg, registry, fcm, zlog); err != nil {
		zlog.Fatal("Failed to set up routes", zap.Error(err))
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server error", zap.Error(err))
		}
	}()
	zlog.Info("Travo server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down")
	registry.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zlog.Error("Forced shutdown", zap.Error(err))
	}
}
