// Package main is the brickdepot entry point.
//
// Wire-up order:
//  1. Config
//  2. Logger
//  3. Database (migrations applied on open)
//  4. Upload directory
//  5. Repositories
//  6. Services and rate limiters
//  7. Session manager and metrics
//  8. Handlers
//  9. Router, middleware chain, CORS
//  10. Two-phase initialize: catalog, then auth
//  11. Listen, then graceful shutdown on SIGINT/SIGTERM
//
// There are no globals; everything is built in newApp and passed down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd := &cobra.Command{
		Use:          "brickdepot",
		Short:        "Lego set catalog with user accounts",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.AddCommand(serveCmd, newSeedCmd())
	return rootCmd
}

func newSeedCmd() *cobra.Command {
	var themesPath, setsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import themes and sets from JSON files",
		Long: `Import themes and sets in one transaction. Existing rows with the same
id (themes) or set_num (sets) are overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), themesPath, setsPath)
		},
	}
	cmd.Flags().StringVar(&themesPath, "themes", "", "path to the themes JSON file")
	cmd.Flags().StringVar(&setsPath, "sets", "", "path to the sets JSON file")
	_ = cmd.MarkFlagRequired("themes")
	_ = cmd.MarkFlagRequired("sets")
	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Errorw("startup failed", "error", err)
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

func runSeed(ctx context.Context, themesPath, setsPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	themes, err := os.Open(themesPath)
	if err != nil {
		return fmt.Errorf("failed to open themes file: %w", err)
	}
	defer themes.Close()

	sets, err := os.Open(setsPath)
	if err != nil {
		return fmt.Errorf("failed to open sets file: %w", err)
	}
	defer sets.Close()

	db, err := database.New(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	result, err := services.NewSeedService(db.Conn, log).Import(ctx, themes, sets)
	if err != nil {
		return err
	}
	log.Infow("seed complete", "themes", result.Themes, "sets", result.Sets)
	return nil
}
