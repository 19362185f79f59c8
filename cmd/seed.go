package cmd

import (
	"pos-backend/database"
	"pos-backend/services"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin and business info, then reconcile stats",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, nil)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.CreateDefaultAdmin(db, cfg.Admin); err != nil {
		return errors.Wrap(err, "failed to seed admin")
	}
	if err := database.SeedBusinessInfo(db, cfg.App.Name); err != nil {
		return errors.Wrap(err, "failed to seed business info")
	}

	result, err := services.NewStatsService(db).ReconcileAll(cmd.Context())
	if err != nil {
		return err
	}
	log.Info().
		Int("customers", result.Customers).
		Int("riders", result.Riders).
		Int("failed", result.Failed).
		Msg("Seed complete")
	return nil
}
