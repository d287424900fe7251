package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bikepulse/internal/config"
	"bikepulse/internal/dataprocessing"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/infrastructure"
	customMiddleware "bikepulse/internal/middleware"
	"bikepulse/internal/services"
	handlers "bikepulse/internal/transport/http"
	ws "bikepulse/internal/websocket"
	"bikepulse/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.BusinessMetrics
	Store            *dataprocessing.Store
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	WebSocketHub     *ws.Hub
	ErrorHandler     *apierrors.ErrorHandler
	FrontendFS       fs.FS // Embedded frontend filesystem
}

// NewApplication loads configuration and telemetry and wires the application
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("daily_source", cfg.Data.DailySource),
		slog.String("hourly_source", cfg.Data.HourlySource))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return New(cfg, logger, otelProviders, frontendFS)
}

// New wires an application from already initialized dependencies.
// frontendFS may be nil, in which case no page is served.
func New(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders, frontendFS fs.FS) (*Application, error) {
	if providers == nil {
		providers = infrastructure.NoopProviders(logger)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
		FrontendFS:    frontendFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()
	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	loader := dataprocessing.NewLoader(
		dataprocessing.Sources{
			Daily:  a.Config.Data.DailySource,
			Hourly: a.Config.Data.HourlySource,
		},
		dataprocessing.WithFetchTimeout(a.Config.Data.FetchTimeout),
		dataprocessing.WithStrictCodes(a.Config.Data.StrictCodes),
		dataprocessing.WithLoaderLogger(a.Logger),
		dataprocessing.WithTracer(a.OTelProviders.Tracer),
	)
	a.Store = dataprocessing.NewStore(loader, a.Logger, a.Metrics)

	a.DashboardService = services.NewDashboardService(a.Store, a.Logger,
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
	)

	a.WebSocketHub = ws.NewHub(ws.NewDispatcher(a.DashboardService, a.Logger), a.Metrics, a.Logger)

	systemMetrics, err := infrastructure.NewSystemMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create system metrics: %w", err)
	}
	a.HealthService = services.NewHealthService(a.Store, a.WebSocketHub, systemMetrics, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Minimal middleware that does not wrap the ResponseWriter, shared with /ws
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	upgrader := ws.NewUpgradeHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger, a.ErrorHandler)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle(config.WebSocketEndpoint, upgrader)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}

	var page *handlers.PageHandler
	if a.FrontendFS != nil {
		page, err = handlers.NewPageHandler(a.FrontendFS, a.Logger)
		if err != nil {
			return err
		}
	}

	// Follow ordering: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.Recoverer)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)

		if page != nil {
			r.Get("/", page.ServeIndex)
			r.Handle("/static/*", page.ServeAssets())
		}
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewRequestValidator(a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, validator, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Mount("/dashboard", dashboardHandler.DashboardRoutes())
		r.Mount("/charts", dashboardHandler.ChartRoutes())
		r.Mount("/export", dashboardHandler.ExportRoutes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Post("/log", clientLogHandler.Handle)
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Preload loads both tables. A failure here is fatal for the process.
func (a *Application) Preload(ctx context.Context) error {
	start := time.Now()
	tables, err := a.Store.Tables(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	bounds, _ := tables.Bounds()
	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.Int("daily_rows", len(tables.Daily)),
		slog.Int("hourly_rows", len(tables.Hourly)),
		slog.String("first_day", bounds.Start.Format(time.DateOnly)),
		slog.String("last_day", bounds.End.Format(time.DateOnly)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Start loads the dataset, starts the hub and begins serving.
// cancel is called if the listener fails after startup.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	if err := a.Preload(ctx); err != nil {
		return err
	}

	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			// Signal shutdown through context instead of os.Exit
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Close websocket clients first; hijacked connections are not tracked by Shutdown
	a.WebSocketHub.Stop()

	var shutdownErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return shutdownErr
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
