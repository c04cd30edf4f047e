package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sould/property-match/docs"
	"github.com/sould/property-match/internal/api/handler"
	"github.com/sould/property-match/internal/api/middleware"
	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

// Deps is everything the router needs. Limiter and Health entries are
// optional.
type Deps struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Filters     ports.FilterService
	Properties  ports.PropertyService
	Invitations ports.InvitationService
	Comments    ports.CommentService

	JWTSecret string
	Limiter   middleware.Limiter
	Health    map[string]handler.Pinger
	Logger    zerolog.Logger

	// Registry replaces the default Prometheus registry for the HTTP
	// metrics and /metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(httpMetrics(d.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users, d.Invitations)
	filterHandler := handler.NewFilterHandler(d.Filters)
	propertyHandler := handler.NewPropertyHandler(d.Properties)
	invitationHandler := handler.NewInvitationHandler(d.Invitations)
	commentHandler := handler.NewCommentHandler(d.Comments)
	healthHandler := handler.NewHealthHandler(d.Health)

	authMiddleware := middleware.Auth(d.JWTSecret)
	limit := middleware.RateLimit(d.Limiter, d.Logger)
	superAdmin := middleware.RBAC(domain.RoleSuperAdmin)

	v1 := e.Group("/v1")

	// --- Auth routes (public) ---
	v1.POST("/auth/register", authHandler.Register, limit)
	v1.POST("/auth/login", authHandler.Login, limit)
	v1.GET("/auth/verify", authHandler.Verify)
	v1.POST("/auth/forgot-password", authHandler.ForgotPassword, limit)
	v1.POST("/auth/reset-password", authHandler.ResetPassword, authMiddleware)

	// --- Authenticated routes ---
	private := v1.Group("", authMiddleware)

	private.GET("/profile", userHandler.Profile)
	private.PUT("/profile", userHandler.UpdateProfile)

	private.PUT("/users/type", userHandler.SetUserType)
	private.GET("/users/search", userHandler.Search)
	private.GET("/users/clients", userHandler.Clients)
	private.DELETE("/users/self", userHandler.DeleteSelf)
	private.GET("/users", userHandler.List, superAdmin)
	private.PUT("/users/:id/admin", userHandler.SetAdmin, superAdmin)
	private.DELETE("/users/:id", userHandler.Delete, superAdmin)

	private.GET("/filters", filterHandler.Get)
	private.PUT("/filters", filterHandler.Set)

	private.GET("/properties/search", propertyHandler.Search)
	private.POST("/properties/search/location", propertyHandler.SearchByLocation)
	private.POST("/properties/selections", propertyHandler.SetSelection)
	private.GET("/properties/selections", propertyHandler.Selections)
	private.GET("/properties/selections/:clientId", propertyHandler.ClientSelections)
	private.DELETE("/properties/selections/:propertyId", propertyHandler.DeleteSelection)

	private.POST("/invitations", invitationHandler.Create, limit)
	private.GET("/invitations/pending", invitationHandler.Pending)
	private.GET("/invitations/accepted", invitationHandler.Accepted)
	private.GET("/invitations/received", invitationHandler.Received)
	private.PUT("/invitations/:id/accept", invitationHandler.Accept)
	private.PUT("/invitations/:id/reject", invitationHandler.Reject)
	private.DELETE("/invitations/:id", invitationHandler.Delete)

	private.GET("/comments/:propertyId", commentHandler.List)
	private.POST("/comments", commentHandler.Create)
	private.PUT("/comments/:id", commentHandler.Update)
	private.DELETE("/comments/:id", commentHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured access line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
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

func httpMetrics(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "propertymatch",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
