// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"echodrop/internal/bootstrap"
	"echodrop/internal/config"
	"echodrop/internal/featureflags"
	"echodrop/internal/identity"
	"echodrop/internal/middleware"
	"echodrop/internal/models"
	"echodrop/internal/realtime"
	"echodrop/internal/repository"
	"echodrop/internal/service"
	"echodrop/internal/storage"
	"echodrop/internal/upload"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Anonymous session tokens are long-lived: losing the token means losing
// the identity, there is no account recovery.
const sessionTTL = 90 * 24 * time.Hour

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	store    storage.BlobStore
	bus      realtime.Bus
	redisBus *realtime.RedisBus
	hub      *realtime.Hub
	auth     *identity.JWTAuth
	flags    *featureflags.Manager

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	bookmarkRepo repository.BookmarkRepository
	reportRepo   repository.ReportRepository

	userService        *service.UserService
	postService        *service.PostService
	feedService        *service.FeedService
	commentService     *service.CommentService
	interactionService *service.InteractionService
	reportService      *service.ReportService
	avatarService      *service.AvatarService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedDemoData: cfg.SeedDemoData,
	})
	if err != nil {
		return nil, err
	}

	store, err := newBlobStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	redisBus := realtime.NewRedisBus(redisClient)
	server, err := NewServerWithDeps(cfg, db, redisClient, store, redisBus)
	if err != nil {
		return nil, err
	}
	server.redisBus = redisBus
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests use this with an in-memory database, a temp-dir
// blob store, and a memory bus.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.BlobStore, bus realtime.Bus) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("echodrop-api"),
		store:          store,
		bus:            bus,
		hub:            realtime.NewHub(),
		auth:           identity.NewJWTAuth(cfg.JWTSecret, sessionTTL),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db, bus),
		commentRepo:    repository.NewCommentRepository(db, bus),
		reactionRepo:   repository.NewReactionRepository(db, bus),
		bookmarkRepo:   repository.NewBookmarkRepository(db, bus),
		reportRepo:     repository.NewReportRepository(db),
	}

	pipeline := upload.NewPipeline(store, cfg.MaxUploadBytes())
	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(server.postRepo, pipeline, store)
	server.feedService = service.NewFeedService(server.postRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo, pipeline)
	server.interactionService = service.NewInteractionService(server.reactionRepo, server.bookmarkRepo, server.postRepo)
	server.reportService = service.NewReportService(server.reportRepo, server.postRepo)
	server.avatarService = service.NewAvatarService()

	return server, nil
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		client, err := storage.NewS3Client(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.PublicBaseURL), nil
	default:
		return storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware runs before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on
	// error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (120 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
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
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Echodrop Metrics Dashboard",
	}))

	// Locally stored audio is served straight off disk.
	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static("/media", local.BaseDir())
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/anonymous", middleware.RateLimit(
		s.redis, 10, time.Minute, "anonymous_auth"), s.CreateAnonymousSession)

	// Fallback avatar rendering
	api.Get("/avatars/:seed", s.GetAvatar)

	// Client feature flags
	api.Get("/flags", s.GetFeatureFlags)

	// User routes. Specific routes before the generic /:id.
	users := api.Group("/users")
	users.Post("/", middleware.AuthRequired, s.CreateProfile)
	users.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	users.Patch("/me", middleware.AuthRequired, s.UpdateMyUsername)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUserProfile)

	// Post routes. Specific routes before the generic /:id.
	posts := api.Group("/posts")
	posts.Get("/bookmarked", middleware.AuthRequired, s.GetBookmarkedPosts)
	posts.Get("/", s.GetFeed)
	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/reactions", middleware.AuthRequired, s.ToggleReaction)
	posts.Put("/:id/bookmark", middleware.AuthRequired, s.ToggleBookmark)
	posts.Post("/:id/report", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "report_post"), s.ReportPost)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Websocket endpoint for realtime change events
	api.Get("/ws", middleware.WebSocketAuthRequired, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Without Redis the feed still works but realtime events and
		// rate limits degrade.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Echodrop API",
		BodyLimit: int(s.config.MaxUploadBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.HTTPStatus(err), err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.redisBus != nil {
		if err := s.redisBus.Start(ctx); err != nil {
			log.Printf("failed to start redis event relay: %v", err)
		}
	}
	if err := s.hub.StartWiring(ctx, s.bus); err != nil {
		log.Printf("failed to start hub wiring: %v", err)
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		log.Printf("error shutting down hub: %v", err)
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
