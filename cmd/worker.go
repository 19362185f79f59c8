package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"pos-backend/metrics"
	"pos-backend/repositories"
	"pos-backend/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const tokenPruneInterval = time.Hour

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that reconciles customer and rider stats and prunes expired refresh tokens`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func reconcileJob(ctx context.Context, stats *services.StatsService, collector *metrics.Metrics) func() {
	return func() {
		start := time.Now()
		result, err := stats.ReconcileAll(ctx)
		collector.RecordTimer("job_reconcile_stats", time.Since(start))
		collector.RecordResult("job_reconcile_stats", err != nil)
		if err != nil {
			log.Error().Err(err).Msg("Failed to reconcile stats")
			return
		}
		log.Info().
			Int("customers", result.Customers).
			Int("riders", result.Riders).
			Int("failed", result.Failed).
			Msg("Stats reconciled")
	}
}

func pruneTokensJob(ctx context.Context, db *gorm.DB, collector *metrics.Metrics) func() {
	return func() {
		removed, err := repositories.NewUserRepository(db).DeleteExpiredRefreshTokens(ctx, time.Now())
		collector.RecordResult("job_prune_refresh_tokens", err != nil)
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune refresh tokens")
			return
		}
		collector.IncrementCounterBy("refresh_tokens_pruned", removed)
		if removed > 0 {
			log.Info().Int64("removed", removed).Msg("Expired refresh tokens pruned")
		}
	}
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.Default()
	db, err := openDatabase(cfg, collector)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	interval := cfg.Worker.StatsInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	stats := services.NewStatsService(db)
	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(reconcileJob(ctx, stats, collector)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return err
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(tokenPruneInterval),
		gocron.NewTask(pruneTokensJob(ctx, db, collector)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Dur("stats_interval", interval).Msg("Starting scheduler")
		scheduler.Start()
		<-ctx.Done()
		log.Info().Msg("Stopping scheduler")
		return scheduler.Shutdown()
	})

	return g.Wait()
}
