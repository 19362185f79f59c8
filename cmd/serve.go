package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pos-backend/config"
	"pos-backend/database"
	"pos-backend/metrics"
	"pos-backend/middleware"
	"pos-backend/routes"
	"pos-backend/services"
	"pos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newRouter(cfg config.Config, collector *metrics.Metrics) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	return r
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	utils.RegisterValidators()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.Default()
	db, err := openDatabase(cfg, collector)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.CreateDefaultAdmin(db, cfg.Admin); err != nil {
		log.Warn().Err(err).Msg("Could not create default admin")
	}
	if err := database.SeedBusinessInfo(db, cfg.App.Name); err != nil {
		log.Warn().Err(err).Msg("Could not seed business info")
	}

	blocklist, err := utils.NewTokenBlocklist(cfg.Redis)
	if err != nil {
		return err
	}

	r := newRouter(cfg, collector)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go limiter.Run(ctx, 5*time.Minute)
		r.Use(limiter.Middleware())
	}

	routes.SetupRoutes(r, routes.Dependencies{
		DB:          db,
		Tokens:      utils.NewTokenManager(cfg.JWT),
		Blocklist:   blocklist,
		Metrics:     collector,
		Clock:       services.NewClock(loc),
		Environment: cfg.Server.Environment,
		StartedAt:   time.Now(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "failed to start server")
		}
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
