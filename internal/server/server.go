// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/pe-odake/Portifolio-Web/docs" // swagger docs
	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/config"
	"github.com/pe-odake/Portifolio-Web/internal/database"
	"github.com/pe-odake/Portifolio-Web/internal/featureflags"
	"github.com/pe-odake/Portifolio-Web/internal/middleware"
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/notifications"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
	"github.com/pe-odake/Portifolio-Web/internal/service"
	"github.com/pe-odake/Portifolio-Web/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	validator      *validation.Validator

	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	commentRepo      repository.CommentRepository
	notificationRepo repository.NotificationRepository
	categoryRepo     repository.CategoryRepository
	tagRepo          repository.TagRepository
	aboutRepo        repository.AboutRepository
	statsRepo        repository.StatsRepository

	notifier     *notifications.Notifier
	featureFlags *featureflags.Manager

	userService         *service.UserService
	projectService      *service.ProjectService
	likeService         *service.LikeService
	commentService      *service.CommentService
	notificationService *service.NotificationService
	aboutService        *service.AboutService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("portfolio-api"),
		validator:        validation.New(),
		userRepo:         repository.NewUserRepository(db),
		projectRepo:      repository.NewProjectRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		categoryRepo:     repository.NewCategoryRepository(db),
		tagRepo:          repository.NewTagRepository(db),
		aboutRepo:        repository.NewAboutRepository(db),
		statsRepo:        repository.NewStatsRepository(db),
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	server.userService = service.NewUserService(server.userRepo, server.statsRepo)
	server.notificationService = service.NewNotificationService(server.notificationRepo, server.notifier)
	server.projectService = service.NewProjectService(
		server.projectRepo, server.categoryRepo, server.tagRepo, server.userService.IsStaff)
	server.likeService = service.NewLikeService(
		server.projectRepo, server.userRepo, server.notificationService.NotifyFn())
	server.commentService = service.NewCommentService(
		server.commentRepo, server.projectRepo, server.userRepo, server.notificationService.NotifyFn())
	server.aboutService = service.NewAboutService(server.aboutRepo, server.userService.IsStaff)

	return server, nil
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

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
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
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Portfolio Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Session establishment from a verified bearer token
	auth := api.Group("/auth")
	auth.Post("/session", s.AuthRequired(), s.EstablishSession)
	auth.Delete("/session", s.AuthRequired(), s.EndSession)

	// Public browsing surface. Viewer identity is optional and only
	// enriches the response (liked flags, draft visibility).
	api.Get("/home", s.GetHome)
	api.Get("/projects", s.GetProjects)
	api.Get("/projects/:id/comments", s.GetComments)
	api.Get("/projects/:id/similar", s.GetSimilarProjects)
	api.Get("/projects/:id", s.GetProject)
	api.Get("/categories", s.GetCategories)
	api.Get("/tags", s.GetTags)
	api.Get("/about", s.GetAbout)
	api.Get("/flash", s.PopFlash)

	// Interaction endpoints. The like toggle answers the AJAX round trip;
	// the comment endpoint honors classic form posts with flash+redirect.
	api.Post("/like/:id", s.AuthRequired(), middleware.RateLimit(
		s.redis, 30, time.Minute, "like"), s.ToggleLike)
	api.Post("/comment/:id", s.AuthRequired(), middleware.RateLimit(
		s.redis, 6, time.Minute, "comment"), s.CreateComment)

	// Protected routes
	protected := api.Group("", s.AuthRequired())
	protected.Get("/profile", s.GetProfile)

	ntf := protected.Group("/notifications")
	ntf.Get("/", s.GetNotifications)
	ntf.Get("/unread-count", s.GetUnreadCount)
	ntf.Post("/read-all", s.MarkAllNotificationsRead)
	ntf.Post("/:id/read", s.MarkNotificationRead)

	// Staff routes
	admin := protected.Group("/admin", s.StaffRequired())
	admin.Get("/dashboard", s.GetDashboard)
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/projects", s.AdminListProjects)
	admin.Post("/projects", s.AdminCreateProject)
	admin.Put("/projects/:id", s.AdminUpdateProject)
	admin.Delete("/projects/:id", s.AdminDeleteProject)
	admin.Get("/users", s.AdminListUsers)
	admin.Post("/users/:id/promote", s.PromoteUser)
	admin.Post("/users/:id/demote", s.DemoteUser)
	admin.Put("/about", s.AdminUpdateAbout)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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

	// Redis is a degradable dependency: readiness reports it but only the
	// database gates the overall status.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It validates the
// HMAC-signed bearer token minted by the external auth collaborator and
// resolves the token subject as the acting user id.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.parseToken(c, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		sub, _ := claims["sub"].(string)

		// Store user ID in context
		c.Locals("userID", sub)
		c.Locals("claims", claims)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sub)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseToken validates signature, issuer, audience, subject, and the jti
// revocation list. On success it returns the token claims.
func (s *Server) parseToken(c *fiber.Ctx, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != s.config.AuthIssuer {
		return nil, fmt.Errorf("invalid token issuer")
	}
	if s.config.AuthAudience != "" {
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != s.config.AuthAudience {
			return nil, fmt.Errorf("invalid token audience")
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("invalid subject claim")
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return nil, fmt.Errorf("token has been revoked")
		}
	}

	return claims, nil
}

// StaffRequired returns middleware that rejects non-staff users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(string)

		staff, err := s.userService.IsStaff(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, errorStatus(err), err)
		}
		if !staff {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Staff access required"))
		}

		return c.Next()
	}
}

// optionalUserID extracts the viewer's id from the Authorization header but
// does not enforce it. Public endpoints use it to layer per-viewer state.
func (s *Server) optionalUserID(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	claims, err := s.parseToken(c, parts[1])
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Portfolio API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
