package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/carelink/health-exchange/docs"
	"github.com/carelink/health-exchange/internal/api/handler"
	"github.com/carelink/health-exchange/internal/api/middleware"
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
	"github.com/carelink/health-exchange/internal/core/service"
	"github.com/carelink/health-exchange/internal/core/session"
	mongoinfra "github.com/carelink/health-exchange/internal/infrastructure/db/mongo"
	redisinfra "github.com/carelink/health-exchange/internal/infrastructure/db/redis"
	"github.com/carelink/health-exchange/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is started by the caller; the router only emits into it.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("healthexchange"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	identityRepo := mongoinfra.NewIdentityRepository(db)
	shareRepo := mongoinfra.NewShareRepository(db)
	loanRepo := mongoinfra.NewLoanRepository(db)
	fhirRepo := mongoinfra.NewFHIRRepository(db)
	shareGuard := redisinfra.NewShareGuard(rdb)

	sessions := handler.SessionFactory(func(sessionID string) *session.Store {
		p := redisinfra.NewSessionPersistence(rdb, sessionID, cfg.RefreshTokenTTL)
		return session.NewStore(p, log)
	})

	authService := service.NewAuthService(identityRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	profileService := service.NewProfileService(identityRepo, fhirRepo, audit, log)
	shareService := service.NewShareService(shareRepo, identityRepo, shareGuard, audit, log)
	loanService := service.NewLoanService(loanRepo, identityRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService, sessions)
	profileHandler := handler.NewProfileHandler(profileService, sessions)
	shareHandler := handler.NewShareHandler(shareService)
	loanHandler := handler.NewLoanHandler(loanService)
	navigationHandler := handler.NewNavigationHandler()

	authRequired := middleware.Auth(cfg.JWTSecret)
	authOptional := middleware.AuthOptional(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authRequired)

	// --- Profile routes (any authenticated role) ---
	profile := e.Group("/v1/profile", authRequired, middleware.RoleGate())
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.GET("/fhir", profileHandler.FHIR, middleware.RoleGate(domain.RolePatient))

	// --- Record sharing ---
	shares := e.Group("/v1/shares", authRequired)
	shares.GET("/recipients", shareHandler.Recipients, middleware.RoleGate(domain.RolePatient))
	shares.POST("", shareHandler.Share, middleware.RoleGate(domain.RolePatient))
	shares.GET("", shareHandler.List, middleware.RoleGate(domain.RolePatient, domain.RoleDoctor, domain.RoleHospital))
	shares.GET("/:shared_id/fhir", shareHandler.FHIR, middleware.RoleGate(domain.RolePatient, domain.RoleDoctor, domain.RoleHospital))
	shares.DELETE("/:shared_id", shareHandler.Revoke, middleware.RoleGate(domain.RolePatient))

	// --- Medical loans ---
	loans := e.Group("/v1/loans", authRequired)
	loans.POST("", loanHandler.Apply, middleware.RoleGate(domain.RolePatient))
	loans.GET("", loanHandler.ListMine, middleware.RoleGate(domain.RolePatient))
	loans.PUT("/:loan_id/response", loanHandler.Respond, middleware.RoleGate(domain.RolePatient))
	loans.GET("/queue", loanHandler.Queue, middleware.RoleGate(domain.RoleLoanProvider))
	loans.PUT("/:loan_id/status", loanHandler.UpdateStatus, middleware.RoleGate(domain.RoleLoanProvider))
	loans.GET("/analytics", loanHandler.Analytics, middleware.RoleGate(domain.RoleLoanProvider))

	// --- Navigation resolver (works for anonymous callers too) ---
	e.GET("/v1/navigation/resolve", navigationHandler.Resolve, authOptional)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
