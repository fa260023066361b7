package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitykit/auth-service/internal/api/handler"
	"github.com/identitykit/auth-service/internal/api/middleware"
	"github.com/identitykit/auth-service/internal/core/domain"
	"github.com/identitykit/auth-service/internal/core/ports"
	"github.com/identitykit/auth-service/internal/core/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	authService ports.AuthService,
	codec *token.Codec,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	contentHandler := handler.NewContentHandler()
	authGuard := middleware.Auth(codec, authService)

	// --- Auth routes ---
	e.POST("/api/auth/signup", authHandler.SignUp)
	e.POST("/api/auth/signin", authHandler.SignIn)
	e.GET("/api/auth/me", authHandler.Me, authGuard,
		middleware.RequireRoles(domain.RoleUser, domain.RoleModerator, domain.RoleAdmin))

	// --- Access-level probes ---
	// The guard runs on the whole group; /all stays reachable because an
	// anonymous request passes through it and /all declares no role
	// predicate.
	test := e.Group("/api/test", authGuard)
	test.GET("/all", contentHandler.Public)
	test.GET("/user", contentHandler.User,
		middleware.RequireRoles(domain.RoleUser, domain.RoleModerator, domain.RoleAdmin))
	test.GET("/mod", contentHandler.Moderator,
		middleware.RequireRoles(domain.RoleModerator, domain.RoleAdmin))
	test.GET("/admin", contentHandler.Admin,
		middleware.RequireRoles(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
