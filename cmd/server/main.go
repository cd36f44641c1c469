package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/damacus/s3-jukebox/internal/config"
	"github.com/damacus/s3-jukebox/internal/handlers"
	"github.com/damacus/s3-jukebox/internal/library"
	customMiddleware "github.com/damacus/s3-jukebox/internal/middleware"
	"github.com/damacus/s3-jukebox/internal/renderer"
	"github.com/damacus/s3-jukebox/internal/services"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	configFile := flag.String("config", os.Getenv("JUKEBOX_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Resolve(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Missing required S3 configuration:\n%v", err)
	}

	logger := log.New("jukebox")
	logger.SetLevel(parseLogLevel(cfg.LogLevel))

	e, err := newServer(cfg, &services.RealStorageFactory{}, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("listening on %s (bucket %q, prefix %q, driver %s)", cfg.Addr, cfg.Bucket, cfg.Prefix, cfg.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// newHandler trusts X-Forwarded-* headers from the reverse proxy in front of e
func newHandler(e *echo.Echo) http.Handler {
	return gorillaHandlers.ProxyHeaders(e)
}

func newServer(cfg config.Config, factory services.StorageFactory, logger *log.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	// Services
	sealer, err := services.NewSessionSealer(cfg.SessionKey)
	if err != nil {
		return nil, err
	}
	client, err := factory.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	metrics := services.NewMetrics("jukebox")
	lister := services.NewLister(client, cfg.Bucket, cfg.Prefix,
		services.WithMetrics(metrics),
		services.WithLogger(logger),
	)
	store := library.NewStore(lister, cfg.SessionTTL)
	metrics.RegisterGauge("jukebox_sessions_active", "Number of live visitor sessions", func() float64 {
		return float64(store.Len())
	})

	libraryHandler := handlers.NewLibraryHandler(cfg.Bucket, cfg.Prefix)
	playerHandler := handlers.NewPlayerHandler(cfg.Bucket, cfg.Prefix, nil)

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infof("REQUEST: method: %v, uri: %v, status: %v", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	e.Use(customMiddleware.CSRF())
	// Applied globally - it skips public routes internally
	e.Use(customMiddleware.SessionMiddleware(sealer, store))

	// Template Renderer
	e.Renderer = renderer.New()

	// Public Routes
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Library
	e.GET("/", libraryHandler.Index)
	e.GET("/tracks", libraryHandler.Table)
	e.GET("/tracks/search", libraryHandler.Search)
	e.POST("/tracks/sort", libraryHandler.Sort)
	e.POST("/tracks/more", libraryHandler.LoadMore)

	// Player
	e.POST("/player/select", playerHandler.Select)
	e.POST("/player/speed", playerHandler.Speed)
	e.GET("/player/download", playerHandler.Download)

	return e, nil
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
