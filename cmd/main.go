package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"ketpa-backend/cmd/bootstrap"
	"ketpa-backend/config"
	"ketpa-backend/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ketpa",
		Short: "Ketpa pet-care appointment API",
		// Running without a subcommand serves the API
		RunE: runServe,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			bootstrap.SetupLogger(cfg.App.Env)
			return bootstrap.Migrate(cfg.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			bootstrap.SetupLogger(cfg.App.Env)

			migrator, err := database.NewMigrator(cfg.DB)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Down(steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			migrator, err := database.NewMigrator(cfg.DB)
			if err != nil {
				return err
			}
			defer migrator.Close()

			version, dirty, err := migrator.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fake doctors and verified patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, _ := cmd.Flags().GetInt("doctors")
			patients, _ := cmd.Flags().GetInt("patients")

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := bootstrap.SetupLogger(cfg.App.Env)

			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := bootstrap.Seed(context.Background(), db, log, doctors, patients); err != nil {
				return err
			}
			log.Infof("Seeded accounts use password %q", bootstrap.SeedPassword)
			return nil
		},
	}
	cmd.Flags().Int("doctors", 10, "Number of doctors to create")
	cmd.Flags().Int("patients", 25, "Number of patients to create")
	return cmd
}
