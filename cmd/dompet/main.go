package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dompet/internal/api"
	"dompet/internal/app"
	"dompet/internal/cache"
	"dompet/internal/cli"
	"dompet/internal/config"
	"dompet/internal/events"
	applog "dompet/internal/log"
	"dompet/internal/tui"
)

const sweepInterval = time.Minute

type flags struct {
	envFile  string
	apiURL   string
	logLevel string
	logFile  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "dompet",
		Short: "Personal finance tracker",
		Long: `dompet records income and expenses against the finance tracker API
and shows balances, analytics and a paginated transaction history.

The session token is read from TELEGRAM_INIT_DATA. Without it the
client starts offline and never contacts the API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.Flags().StringVar(&f.apiURL, "api-url", "", "API base URL (overrides API_BASE_URL)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file path (overrides LOG_FILE)")

	cmd.AddCommand(newCheckCmd(&f))
	return cmd
}

// newCheckCmd validates the configuration without starting the UI.
func newCheckCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*f)
			if err != nil {
				return err
			}
			session := "missing (offline)"
			if cfg.HasSession() {
				session = "present"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "api: %s\nsession: %s\nlog: %s (%s)\n",
				cfg.APIBaseURL, session, cfg.LogFile, cfg.LogLevel)
			return nil
		},
	}
}

func loadConfig(f flags) (*config.Config, error) {
	if err := cli.LoadEnvFile(f.envFile); err != nil {
		return nil, err
	}
	return cli.LoadAndValidateConfig(func(c *config.Config) {
		if f.apiURL != "" {
			c.APIBaseURL = f.apiURL
		}
		if f.logLevel != "" {
			c.LogLevel = f.logLevel
		}
		if f.logFile != "" {
			c.LogFile = f.logFile
		}
	})
}

func run(parent context.Context, f flags) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	logger, closer, err := cli.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := cli.SignalContext(parent)
	defer stop()

	logger.Info("Starting dompet",
		applog.FieldOperation, applog.OpStartup,
		"api", cfg.APIBaseURL,
		"session", cfg.HasSession())

	gateway, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}

	var observer app.ChangeObserver
	if cfg.AMQPURL != "" {
		pub, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Warn("Change events disabled", applog.FieldError, err.Error())
		} else {
			defer pub.Close()
			observer = pub
		}
	}

	index := cache.NewRowIndex(cfg.RowCacheSize, cfg.RowCacheTTL)
	go cache.NewJanitor(logger, index).Run(ctx, sweepInterval)

	bridge := tui.NewBridge()
	chart := tui.NewChart()
	opts := app.Options{
		Chart:     chart,
		Notifier:  bridge,
		Confirmer: bridge,
		Index:     index,
		Logger:    logger,
		Location:  cfg.Location(),
	}
	if gateway != nil {
		opts.Gateway = gateway
	}
	if observer != nil {
		opts.Observer = observer
	}

	a := app.New(opts)
	err = tui.Run(ctx, a, bridge, chart, logger)
	// Let in-flight change events finish before the publisher closes.
	a.Drain()
	logger.Info("Stopped", applog.FieldOperation, applog.OpShutdown)
	return err
}

// newGateway returns nil when no session token is configured; the app then
// runs offline.
func newGateway(cfg *config.Config, logger *applog.Logger) (*api.Client, error) {
	client, err := api.New(cfg.APIBaseURL, cfg.InitData,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(logger.WithComponent(applog.ComponentAPI)))
	if errors.Is(err, api.ErrNoSession) {
		logger.Warn("TELEGRAM_INIT_DATA not set, starting offline")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	return client, nil
}
