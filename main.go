package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/freightbench/internal/server"
	"github.com/tournevent/freightbench/pkg/lane"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "freightbench",
	Short:   "Freight lane mileage and rate benchmarking service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and GraphQL server",
	RunE:  runServe,
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <origin> <destination>",
	Short: "Print the lane mileage between two locations",
	Args:  cobra.ExactArgs(2),
	RunE:  runEstimate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(estimateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	app, err := initApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	logger.Info("Starting freightbench",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("distance_provider", app.provider.Name()),
		zap.Strings("boards", app.registry.Names()),
		zap.Bool("persistent_storage", cfg.PersistentStorage()),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, server.Deps{
		Searches:   app.searches,
		Tracker:    app.tracker,
		Registry:   app.registry,
		Comparator: app.comparator,
		Accounts:   app.accounts,
		Logger:     logger,
		Metrics:    app.metrics,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, err := initApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	route := lane.New(args[0], args[1])
	miles, cached, err := app.searches.Estimate(ctx, route)
	if err != nil {
		return err
	}

	source := app.provider.Name()
	if cached {
		source = "cache"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Estimated mileage from %s to %s: %d miles (%s)\n",
		route.Origin, route.Destination, miles, source)
	return nil
}
