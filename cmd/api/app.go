package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"wayguard/internal/config"
	"wayguard/internal/geolocation"
	"wayguard/internal/guides"
	"wayguard/internal/mapview"
	"wayguard/internal/place"
	"wayguard/internal/providers/googlemaps"
	"wayguard/internal/timezone"
	"wayguard/internal/types"
	"wayguard/internal/unlock"
)

// App encapsulates application dependencies
type App struct {
	router        *gin.Engine
	logger        *slog.Logger
	sessions      *unlock.Registry
	guidesService guides.Service
	limiter       *ipRateLimiter
	cfg           *config.Config
}

// NewApp creates a new application with injected dependencies
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, err
	}

	geocoder := googlemaps.NewGeocodeClientWithURL(cfg.Google.GeocodeURL, cfg.Google.APIKey, cfg.Google.RequestsPerSecond, logger)
	sdk := googlemaps.NewSDKLoaderWithURL(cfg.Google.MapsJSURL, cfg.Google.APIKey, logger)

	sessions := unlock.NewRegistry(
		ctx,
		place.NewResolverWithProvider(geocoder, logger),
		mapview.NewRenderer(sdk, logger),
		tzSvc,
		geolocationOptions(cfg.Location),
		unlockSettings(cfg),
		cfg.Session.TTL,
		logger,
	)

	return newApp(cfg, logger, sessions, guides.NewGuidesService(cfg.Guides.URL, logger)), nil
}

func newApp(cfg *config.Config, logger *slog.Logger, sessions *unlock.Registry, guidesService guides.Service) *App {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	app := &App{
		router:        router,
		logger:        logger,
		sessions:      sessions,
		guidesService: guidesService,
		limiter:       newIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst, logger),
		cfg:           cfg,
	}

	logger.Info("application initialized")

	// Register routes
	app.registerRoutes()

	return app
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled.
func (app *App) Run(ctx context.Context, addr string) error {
	go app.sessions.Run(ctx, app.cfg.Session.SweepInterval)
	go app.limiter.run(ctx, app.cfg.Session.SweepInterval)

	srv := &http.Server{
		Addr:    addr,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		app.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func geolocationOptions(c config.LocationConfig) geolocation.Options {
	return geolocation.Options{
		HighAccuracy: c.HighAccuracy,
		Timeout:      time.Duration(c.TimeoutMs) * time.Millisecond,
		MaximumAge:   time.Duration(c.MaximumAgeMs) * time.Millisecond,
	}
}

func unlockSettings(cfg *config.Config) unlock.Settings {
	settings := unlock.DefaultSettings()
	fallback := types.NewCoords(cfg.Fallback.Latitude, cfg.Fallback.Longitude)
	if fallback != settings.FallbackCoords {
		// The hardcoded place only describes the default city.
		settings.FallbackCoords = fallback
		settings.FallbackPlace = types.DefaultPlaceDetails()
	}
	if cfg.Map.Zoom > 0 {
		settings.LiveZoom = cfg.Map.Zoom
	}
	if cfg.Map.FallbackZoom > 0 {
		settings.FallbackZoom = cfg.Map.FallbackZoom
	}
	return settings
}
