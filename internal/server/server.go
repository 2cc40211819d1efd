// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"clipstream/internal/cache"
	"clipstream/internal/config"
	"clipstream/internal/database"
	"clipstream/internal/middleware"
	"clipstream/internal/repository"
	"clipstream/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	media          storage.MediaStore
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	commentRepo      repository.CommentRepository
	likeRepo         repository.LikeRepository
	subscriptionRepo repository.SubscriptionRepository
	playlistRepo     repository.PlaylistRepository
	tweetRepo        repository.TweetRepository
	dashboardRepo    repository.DashboardRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	media, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media store initialization failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, media), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis/media itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, media storage.MediaStore) *Server {
	return &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		media:            media,
		promMiddleware:   middleware.InitMetrics("clipstream-api"),
		userRepo:         repository.NewUserRepository(db),
		videoRepo:        repository.NewVideoRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		likeRepo:         repository.NewLikeRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		playlistRepo:     repository.NewPlaylistRepository(db),
		tweetRepo:        repository.NewTweetRepository(db),
		dashboardRepo:    repository.NewDashboardRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// User routes
	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/refresh-token", s.RefreshToken)
	users.Post("/logout", s.AuthRequired(), s.Logout)
	users.Patch("/change-password", s.AuthRequired(), s.ChangePassword)
	users.Get("/current", s.AuthRequired(), s.GetCurrentUser)
	users.Patch("/update-account", s.AuthRequired(), s.UpdateAccount)
	users.Patch("/avatar", s.AuthRequired(), s.UpdateAvatar)
	users.Patch("/cover-image", s.AuthRequired(), s.UpdateCoverImage)
	users.Get("/watch-history", s.AuthRequired(), s.GetWatchHistory)
	users.Get("/channel/:username", s.GetChannelProfile)

	// Video routes
	videos := api.Group("/videos")
	videos.Get("/", s.GetAllVideos)
	videos.Post("/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "publish_video"), s.PublishVideo)
	// Define specific /:videoId/:resource routes BEFORE generic /:videoId routes
	videos.Get("/:videoId/comments", s.GetVideoComments)
	videos.Post("/:videoId/comments", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	videos.Patch("/:videoId/toggle-publish", s.AuthRequired(), s.TogglePublishStatus)
	videos.Get("/:videoId", s.GetVideoByID)
	videos.Patch("/:videoId", s.AuthRequired(), s.UpdateVideo)
	videos.Delete("/:videoId", s.AuthRequired(), s.DeleteVideo)

	// Comment routes
	comments := api.Group("/comments", s.AuthRequired())
	comments.Patch("/:commentId", s.UpdateComment)
	comments.Delete("/:commentId", s.DeleteComment)

	// Like routes
	likes := api.Group("/likes", s.AuthRequired())
	likes.Post("/video/:videoId", s.ToggleVideoLike)
	likes.Post("/comment/:commentId", s.ToggleCommentLike)
	likes.Post("/tweet/:tweetId", s.ToggleTweetLike)
	likes.Get("/videos", s.GetLikedVideos)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/user/:subscriberId", s.AuthRequired(), s.GetSubscribedChannels)
	subscriptions.Get("/:channelId/subscribers", s.GetChannelSubscribers)
	subscriptions.Post("/:channelId", s.AuthRequired(), s.ToggleSubscription)

	// Playlist routes
	playlists := api.Group("/playlists")
	playlists.Post("/", s.AuthRequired(), s.CreatePlaylist)
	playlists.Get("/", s.AuthRequired(), s.GetPlaylists)
	playlists.Patch("/:playlistId/videos/:videoId", s.AuthRequired(), s.AddVideoToPlaylist)
	playlists.Delete("/:playlistId/videos/:videoId", s.AuthRequired(), s.RemoveVideoFromPlaylist)
	playlists.Get("/:playlistId", s.GetPlaylistByID)
	playlists.Patch("/:playlistId", s.AuthRequired(), s.UpdatePlaylist)
	playlists.Delete("/:playlistId", s.AuthRequired(), s.DeletePlaylist)

	// Tweet routes
	tweets := api.Group("/tweets")
	tweets.Post("/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_tweet"), s.CreateTweet)
	tweets.Get("/user/:userId", s.GetUserTweets)
	tweets.Patch("/:tweetId", s.AuthRequired(), s.UpdateTweet)
	tweets.Delete("/:tweetId", s.AuthRequired(), s.DeleteTweet)

	// Dashboard routes
	dashboard := api.Group("/dashboard", s.AuthRequired())
	dashboard.Get("/stats", s.GetChannelStats)
	dashboard.Get("/videos", s.GetChannelVideos)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the server can reach its dependencies.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok", "redis": "ok"}
	healthy := true

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unreachable"
			healthy = false
		}
	} else {
		checks["database"] = "not configured"
		healthy = false
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"status": checks})
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(_ context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
