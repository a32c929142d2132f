package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sirpyerre/secure-items-api/docs"
	"github.com/sirpyerre/secure-items-api/internal/api/handler"
	"github.com/sirpyerre/secure-items-api/internal/api/middleware"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
	"github.com/sirpyerre/secure-items-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Logger zerolog.Logger

	AuthService ports.AuthService
	UserService ports.UserService
	ItemService ports.ItemService

	Cookie       handler.CookieConfig
	HealthChecks []handlers.Check

	// EnableSwagger serves the API docs under /swagger/*.
	EnableSwagger bool
	// MetricsSubsystem names the echoprometheus HTTP metrics; empty disables
	// them. Tests leave it empty since collectors register globally.
	MetricsSubsystem string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	if deps.MetricsSubsystem != "" {
		e.Use(echoprometheus.NewMiddleware(deps.MetricsSubsystem))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	if deps.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	session := middleware.Session(deps.AuthService, deps.Cookie.Name)
	adminOnly := middleware.RequireCapability(domain.CapManageUsers)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserService, deps.Cookie)
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, middleware.OptionalSession(deps.AuthService, deps.Cookie.Name))
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, session)
	auth.GET("/me", authHandler.Me, session)

	// --- User administration ---
	userHandler := handler.NewUserHandler(deps.UserService)
	users := e.Group("/api/users", session, adminOnly)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Items ---
	itemHandler := handler.NewItemHandler(deps.ItemService)
	items := e.Group("/api/items", session)
	items.GET("", itemHandler.List)
	items.GET("/mine", itemHandler.Mine)
	items.GET("/:id", itemHandler.Get)
	items.POST("", itemHandler.Create)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
