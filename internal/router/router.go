package router

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/travo-app/travo-server/internal/handlers"
	"github.com/travo-app/travo-server/internal/middleware"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/notifications"
	"github.com/travo-app/travo-server/internal/realtime"
	"github.com/travo-app/travo-server/internal/repositories"
	"github.com/travo-app/travo-server/pkg/config"
	"go.uber.org/zap"
)

// SetupRoutes wires repositories, the notification factory, and handlers into
// the Echo instance. fcm may be nil, which disables mobile push.
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, registry *realtime.Registry, fcm notifications.DevicePusher, log *zap.Logger) error {
	if err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.SavedPost{},
		&models.Notification{},
		&models.DeviceToken{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	savedRepo := repositories.NewPostgresSavedPostRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	deviceRepo := repositories.NewPostgresDeviceTokenRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	guideRepo := repositories.NewMongoGuideRepository(mongoDB)

	notifier := notifications.NewFactory(notificationRepo, userRepo, postRepo, deviceRepo, registry, fcm, log)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, savedRepo)
	guideHandler := handlers.NewGuideHandler(guideRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifier, log)
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, notifier, log)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier, log)
	savedHandler := handlers.NewSavedPostHandler(savedRepo, postRepo)
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, postRepo, log)
	wsHandler := handlers.NewWSHandler(registry, cfg.JWTSecret, log)

	e.GET("/health", handlers.HealthCheck)
	wsHandler.RegisterWSRoutes(e)

	public := e.Group("/api/v1")
	authHandler.RegisterAuthRoutes(public)

	protected := e.Group("/api/v1", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userHandler.RegisterProfileRoutes(protected)
	postHandler.RegisterPostRoutes(protected)
	feedHandler.RegisterFeedRoutes(protected)
	guideHandler.RegisterGuideRoutes(protected)
	commentHandler.RegisterCommentRoutes(protected)
	likeHandler.RegisterLikeRoutes(protected)
	followHandler.RegisterFollowRoutes(protected)
	savedHandler.RegisterSavedPostRoutes(protected)
	deviceHandler.RegisterDeviceRoutes(protected)
	notificationHandler.RegisterNotificationRoutes(protected)
	wsHandler.RegisterSessionRoutes(protected)

	return nil
}
