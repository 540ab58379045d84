package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobox/jobox-api/internal/api/handler"
	"github.com/jobox/jobox-api/internal/api/middleware"
	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
	"github.com/jobox/jobox-api/internal/core/service"
	"github.com/jobox/jobox-api/internal/routes"
)

// Deps carries everything the router needs. MongoDB and Redis are nil in
// memory mode; the readiness probe accounts for that.
type Deps struct {
	Sessions  ports.SessionService
	Registry  *routes.Registry
	Log       zerolog.Logger
	JWTSecret string
	TokenTTL  time.Duration
	MongoDB   *mongo.Database
	Redis     *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("jobox"))

	// --- Dependencies ---
	policy := service.NewAccessPolicy(routes.Login, routes.Home)
	composer := service.NewNavigationComposer()
	tokens := handler.NewTokenIssuer(deps.JWTSecret, deps.TokenTTL)

	authHandler := handler.NewAuthHandler(deps.Sessions, tokens)
	navHandler := handler.NewNavigationHandler(deps.Sessions, policy, composer, deps.Registry)

	authRequired := middleware.Auth(deps.JWTSecret)
	authOptional := middleware.OptionalAuth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/logout", authHandler.Logout, authRequired)
	e.GET("/auth/session", authHandler.Session, authRequired)
	e.PATCH("/auth/profile", authHandler.UpdateProfile, authRequired)

	// --- Navigation & access decisions ---
	e.GET("/navigation", navHandler.Menu, authRequired)
	e.GET("/routes/decision", navHandler.Decision, authOptional)

	// Employer-only surface: candidate search mirrors the SPA's
	// role-locked search route.
	searchHandler := handler.NewSearchHandler()
	e.GET("/search/candidates", searchHandler.Candidates, authRequired, middleware.RBAC(domain.RoleEmployer))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.MongoDB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
