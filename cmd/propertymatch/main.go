// Command propertymatch runs the property-match API and its maintenance jobs.
//
// @title                       Property Match API
// @version                     1.0
// @description                 Matches home buyers with listings and lets agents follow their clients.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/sould/property-match/internal/app"
	"github.com/sould/property-match/internal/pkg/config"
	"github.com/sould/property-match/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "propertymatch",
		Short:         "Property matchmaking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		sweepCmd(),
		indexesCmd(),
		mailerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initialises the process logger.
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFrom(cmd.Context(), envconfig.OsLookuper())
	if err != nil {
		return nil, nil, nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "propertymatch",
	}).With().Str("command", cmd.Name()).Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop, cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the sweep scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer stop()

			a, err := app.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if err := a.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			return a.Serve(ctx)
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Purge listings soft-deleted past the retention period, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer stop()

			a, err := app.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if !a.SweepOnce(ctx) {
				return fmt.Errorf("sweep did not complete")
			}
			return nil
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer stop()

			a, err := app.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if err := a.EnsureIndexes(ctx); err != nil {
				return err
			}
			log.Info().Msg("indexes ensured")
			return nil
		},
	}
}

func mailerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mailer",
		Short: "Deliver queued notifications over SMTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return app.RunMailer(ctx, cfg, log)
		},
	}
}
