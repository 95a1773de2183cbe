package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/quillpress/blog-api/docs"
	"github.com/quillpress/blog-api/internal/api/handler"
	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs. Optional fields may
// be left nil: without a RateLimiter auth routes are not throttled, without
// Views post reads are not counted, and only the listed ReadinessChecks run.
type Dependencies struct {
	Log        zerolog.Logger
	Production bool
	Origins    []string

	Identity   ports.IdentityResolver
	Auth       ports.AuthService
	Users      ports.UserService
	Posts      ports.PostService
	Categories ports.CategoryService

	Views           ports.ViewRecorder
	RateLimiter     echomiddleware.RateLimiterStore
	ReadinessChecks map[string]handler.DependencyCheck

	// Metrics enables the Prometheus middleware and /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, !d.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.Origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("blog"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth required) ---
	health := handler.NewHealthHandler(d.ReadinessChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	protect := middleware.Protect(d.Identity, d.Log)
	optional := middleware.OptionalAuth(d.Identity, d.Log)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	if d.RateLimiter != nil {
		auth.Use(middleware.RateLimit(d.RateLimiter))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, protect)
	auth.PUT("/profile", authHandler.UpdateProfile, protect)
	auth.PUT("/change-password", authHandler.ChangePassword, protect)
	auth.POST("/logout", authHandler.Logout, protect)

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users, d.Posts)
	users := api.Group("/users")
	users.GET("", userHandler.List, protect, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/posts", userHandler.Posts)
	users.PUT("/:id/status", userHandler.SetStatus, protect, adminOnly)
	users.PUT("/:id/role", userHandler.SetRole, protect, adminOnly)

	// --- Posts ---
	postHandler := handler.NewPostHandler(d.Posts, d.Views)
	ownPost := []echo.MiddlewareFunc{
		protect,
		middleware.LoadResource(postHandler.Loader()),
		middleware.RequireOwnership("author"),
	}
	posts := api.Group("/posts")
	posts.GET("", postHandler.List, optional)
	posts.GET("/slug/:slug", postHandler.GetBySlug, optional)
	posts.GET("/:id", postHandler.Get, optional)
	posts.POST("", postHandler.Create, protect, middleware.RequireRole())
	posts.PUT("/:id", postHandler.Update, ownPost...)
	posts.DELETE("/:id", postHandler.Delete, ownPost...)
	posts.POST("/:id/like", postHandler.Like, protect)

	// --- Categories ---
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	ownCategory := []echo.MiddlewareFunc{
		protect,
		adminOnly,
		middleware.LoadResource(categoryHandler.Loader()),
		middleware.RequireOwnership("createdBy"),
	}
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create, protect, adminOnly)
	categories.PUT("/:id", categoryHandler.Update, ownCategory...)
	categories.DELETE("/:id", categoryHandler.Delete, ownCategory...)

	e.RouteNotFound("/*", notFoundRoute)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
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
