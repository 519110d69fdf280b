package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barogreen/internal/config"
	"barogreen/internal/database"
	"barogreen/internal/handlers"
	"barogreen/internal/metrics"
	"barogreen/internal/middleware"
	"barogreen/internal/moderation"
	"barogreen/internal/routing"
	"barogreen/internal/tracing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "barogreen",
	Short: "BARO GREEN admin dashboard",
	// Running without a subcommand serves the dashboard
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin dashboard and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the most recent moderation audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printAudit(cmd.Context(), cmd.OutOrStdout(), cfg, auditLimit)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(os.Getenv)
		if err != nil {
			return err
		}
		return config.Write(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "number of entries to print")
	rootCmd.AddCommand(serveCmd, auditCmd, configCmd)
}

// loadConfig reads the configuration and sets up logging from it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg.Log, os.Stdout)
	return cfg, nil
}

// setupLogging configures the global zerolog logger
func setupLogging(cfg config.LogConfig, out io.Writer) {
	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use pretty console logging in development, JSON in production
	if cfg.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	}
}

// csrfConfig builds the CSRF middleware settings from the loaded config
func csrfConfig(cfg *config.Config) *middleware.CSRFConfig {
	csrf := middleware.DefaultCSRFConfig()
	csrf.SecureCookie = cfg.HTTP.SecureCookies
	return csrf
}

// statsSource exposes the store's counts to the metrics collector
func statsSource(store *moderation.Service) metrics.StatsSource {
	return metrics.StatsSource{
		RecordCountByCollection: store.Counts,
		PendingReportsByCategory: func() map[string]int {
			pending := store.PendingReports()
			result := make(map[string]int, len(pending))
			for category, n := range pending {
				result[string(category)] = n
			}
			return result
		},
		VisibleCommentCount: func() int {
			return len(store.VisibleComments())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("Starting BARO GREEN admin dashboard")

	if cfg.Tracing.Endpoint != "" {
		tp, err := tracing.Init(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("Tracing enabled")
	}

	audit, err := database.Open(ctx, database.Backend(cfg.Audit.Backend), cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer audit.Close()

	store := moderation.NewService(moderation.WithAuditStore(audit))
	metrics.StartCollector(ctx, statsSource(store), cfg.Metrics.Interval.Duration)

	csrf := csrfConfig(cfg)

	handler := routing.SetupRouter(routing.Config{
		Handlers: handlers.NewHandler(store, handlers.DefaultConfig()),
		Logger:   log.Logger,
		CSRF:     csrf,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", cfg.Addr()).
			Str("url", "http://localhost:"+cfg.Port+"/admin").
			Str("audit_backend", cfg.Audit.Backend).
			Bool("secure_cookies", csrf.SecureCookie).
			Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// printAudit writes the newest audit entries of the configured backend
func printAudit(ctx context.Context, w io.Writer, cfg *config.Config, limit int) error {
	if cfg.Audit.Backend == string(database.BackendMemory) {
		return errors.New("the memory audit backend keeps nothing between runs; set BARO_AUDIT_BACKEND to bolt or sqlite")
	}

	audit, err := database.Open(ctx, database.Backend(cfg.Audit.Backend), cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer audit.Close()

	entries, err := audit.ListAuditLog(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing audit log: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-10s %-6s %-12s %s\n",
			e.Timestamp.Format(time.RFC3339), e.Target(), e.Action, e.Outcome, e.ID)
	}
	return nil
}
