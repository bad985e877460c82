package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/ski-tracker/internal/api/http"
	"github.com/i474232898/ski-tracker/internal/calendar"
	"github.com/i474232898/ski-tracker/internal/colormode"
	"github.com/i474232898/ski-tracker/internal/config"
	"github.com/i474232898/ski-tracker/internal/logger"
	"github.com/i474232898/ski-tracker/internal/mountain"
	"github.com/i474232898/ski-tracker/internal/scheduler"
	"github.com/i474232898/ski-tracker/internal/store"
	"github.com/i474232898/ski-tracker/internal/weather"
	"github.com/i474232898/ski-tracker/internal/weather/providers"
	"github.com/i474232898/ski-tracker/internal/webcam"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(cfg.LogLevel, cfg.Env).WithField("service", "ski-tracker")

	classifier, err := calendar.NewClassifier(cfg.DisplayTimezone)
	if err != nil {
		appLog.Fatalf("invalid display timezone: %v", err)
	}
	resolver, err := webcam.NewResolver(cfg.WebcamTimezone)
	if err != nil {
		appLog.Fatalf("invalid webcam timezone: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenMeteoProvider(httpClient,
		providers.WithBaseURL(cfg.OpenMeteoBaseURL),
		providers.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
	)

	memStore := store.NewMemoryStore(cfg.StoreMaxAge)

	service := weather.NewService(memStore, provider, classifier, appLog,
		weather.WithWindow(cfg.PastDays, cfg.ForecastDays),
	)

	colorModes, closeColorModes := colorModeStorage(cfg, appLog)
	defer closeColorModes()

	// Scheduler that keeps every mountain's forecast warm.
	sched := scheduler.New(mountain.All(), cfg.FetchInterval, service, appLog)
	if err := sched.Start(); err != nil {
		appLog.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "ski-tracker",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ski-tracker",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		Resolver:   resolver,
		ColorModes: colorModes,
		Runtime: httpapi.RuntimeConfig{
			APIBaseURL:      cfg.APIBaseURL,
			DisplayTimezone: cfg.DisplayTimezone,
		},
		Log: appLog,
	})

	go func() {
		appLog.Infof("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Errorf("error during shutdown: %v", err)
	}
}

// colorModeStorage picks the preference backend. An unreachable Redis falls
// back to memory so the dashboard still starts.
func colorModeStorage(cfg *config.AppConfig, log logger.Logger) (colormode.Storage, func()) {
	if cfg.ColorModeStore != config.ColorModeRedis {
		return colormode.NewMemoryStorage(), func() {}
	}

	rs, err := colormode.NewRedisStorage(context.Background(), colormode.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      180 * 24 * time.Hour,
	})
	if err != nil {
		log.Warnf("color mode: %v; using in-memory storage", err)
		return colormode.NewMemoryStorage(), func() {}
	}
	log.Infof("color mode: using redis at %s", cfg.RedisAddr)
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.Warnf("color mode: closing redis: %v", err)
		}
	}
}
