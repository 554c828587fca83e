package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/api/handler"
	"github.com/bethehero/web/internal/api/middleware"
	"github.com/bethehero/web/internal/core/ports"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log        zerolog.Logger
	Workspaces middleware.WorkspaceResolver
	Browser    middleware.BrowserConfig

	Storage        ports.StorageProvider
	StorageBackend string

	// SubmitGuard is nil unless SUBMIT_GUARD is on.
	SubmitGuard ports.SubmitGuard
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(deps.Log))

	// --- Probes and metrics (no browser cookie) ---
	health := handler.NewHealthHandler(deps.Storage, deps.StorageBackend)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Browser routes ---
	sessions := handler.NewSessionHandler(deps.SubmitGuard, deps.Log)
	ngos := handler.NewNGOHandler(deps.SubmitGuard, deps.Log)
	incidents := handler.NewIncidentHandler(deps.SubmitGuard, deps.Log)

	browser := middleware.Browser(deps.Browser, deps.Workspaces)
	guest := middleware.GuestOnly()
	private := middleware.Private()

	e.GET("/", sessions.LoginPage, browser, guest)
	e.POST("/", sessions.Login, browser, guest)
	e.GET("/register", ngos.RegisterPage, browser)
	e.POST("/register", ngos.Register, browser)

	app := e.Group("/incidents", browser, private)
	app.GET("", incidents.List)
	app.GET("/more", incidents.More)
	app.GET("/create", incidents.CreatePage)
	app.POST("/create", incidents.Create)
	app.POST("/:id/delete", incidents.Delete)

	e.POST("/logout", sessions.Logout, browser, private)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
