package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"autopress/publisher/internal/config"
	"autopress/publisher/internal/database"
	"autopress/publisher/internal/runner"
	"autopress/publisher/internal/schedule"
	"autopress/publisher/internal/seed"
	"autopress/publisher/internal/server"
	"autopress/publisher/internal/server/api"
	"autopress/publisher/internal/store"
	"autopress/publisher/internal/trends"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func usage() {
	fmt.Println("Usage: publisher [command] [options]")
	fmt.Println("Commands: run, server, seed")
	fmt.Println("\nFor command-specific options, use: publisher [command] -h")
}

func main() {
	cfg := config.DefaultConfig()

	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	runCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("PUBLISHER_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: PUBLISHER_DB_PATH)")
	runCmd.StringVar(&cfg.Timezone, "timezone", config.GetEnvString("PUBLISHER_TIMEZONE", config.DefaultTimezone),
		"IANA timezone for schedule times (env: PUBLISHER_TIMEZONE)")
	runCmd.IntVar(&cfg.WindowMinutes, "window", config.GetEnvInt("PUBLISHER_WINDOW_MINUTES", config.DefaultWindowMinutes),
		"Due-time window half-width in minutes (env: PUBLISHER_WINDOW_MINUTES)")

	var force bool
	runCmd.BoolVar(&force, "force", false, "Bypass due-time checks and execute all active schedules now")

	var daemon bool
	runCmd.BoolVar(&daemon, "daemon", false, "Keep running and trigger an invocation every minute")

	var runLogLevelStr string
	runCmd.StringVar(&runLogLevelStr, "log-level", config.GetEnvString("PUBLISHER_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: PUBLISHER_LOG_LEVEL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("PUBLISHER_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: PUBLISHER_DB_PATH)")
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("PUBLISHER_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: PUBLISHER_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("PUBLISHER_PORT", config.DefaultServerPort),
		"Port to listen on (env: PUBLISHER_PORT)")
	serverCmd.StringVar(&cfg.APIKey, "api-key", config.GetEnvString("PUBLISHER_API_KEY", ""),
		"API key required on every request; empty disables auth (env: PUBLISHER_API_KEY)")

	var serverLogLevelStr string
	serverCmd.StringVar(&serverLogLevelStr, "log-level", config.GetEnvString("PUBLISHER_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: PUBLISHER_LOG_LEVEL)")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("PUBLISHER_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: PUBLISHER_DB_PATH)")
	seedCmd.StringVar(&cfg.SeedPath, "file", config.GetEnvString("PUBLISHER_SEED_PATH", config.DefaultSeedPath),
		"Path to the YAML seed file (env: PUBLISHER_SEED_PATH)")

	var seedReset bool
	seedCmd.BoolVar(&seedReset, "reset", false, "Delete the database file before seeding")

	var seedLogLevelStr string
	seedCmd.StringVar(&seedLogLevelStr, "log-level", config.GetEnvString("PUBLISHER_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: PUBLISHER_LOG_LEVEL)")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCmd.Parse(os.Args[2:])
		applyLogLevel(cfg, runLogLevelStr)

		if err := runInvocations(cfg, force, daemon); err != nil {
			log.Error().Err(err).Msg("Run failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])
		applyLogLevel(cfg, serverLogLevelStr)

		if err := runServer(cfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "seed":
		seedCmd.Parse(os.Args[2:])
		applyLogLevel(cfg, seedLogLevelStr)

		if err := runSeed(cfg, seedReset); err != nil {
			log.Error().Err(err).Msg("Seed failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		usage()
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		usage()
		os.Exit(1)
	}
}

func applyLogLevel(cfg *config.Config, levelStr string) {
	if level, err := zerolog.ParseLevel(levelStr); err == nil {
		cfg.LogLevel = level
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
}

func newRunner(cfg *config.Config, db *database.DB) (*runner.Runner, error) {
	eval, err := schedule.NewEvaluator(cfg.Timezone, cfg.DueWindow())
	if err != nil {
		return nil, err
	}
	return runner.New(store.New(db), eval, cfg.OutboundTimeout), nil
}

// runInvocations performs one pipeline invocation, or in daemon mode keeps
// triggering one every minute until SIGINT/SIGTERM. The per-minute tick is
// deliberately dumb: the due-time window and frequency gates decide whether
// anything actually executes.
func runInvocations(cfg *config.Config, force, daemon bool) error {
	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r, err := newRunner(cfg, db)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !daemon {
		report, err := r.Run(ctx, force)
		if err != nil {
			return err
		}
		log.Info().
			Int("executed", report.Executed).
			Int("results", len(report.Results)).
			Msg("One-shot invocation completed")
		return nil
	}

	if force {
		return fmt.Errorf("-force and -daemon are mutually exclusive")
	}

	c := cron.New()
	_, err = c.AddFunc("* * * * *", func() {
		runCtx, runCancel := context.WithTimeout(ctx, cfg.OutboundTimeout*4)
		defer runCancel()

		if _, err := r.Run(runCtx, false); err != nil {
			log.Error().Err(err).Msg("Scheduled invocation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register cron trigger: %w", err)
	}

	log.Info().Str("timezone", cfg.Timezone).Msg("Daemon started, triggering every minute")
	c.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	cancel()
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Timed out waiting for running invocation")
	}

	log.Info().Msg("Daemon exiting.")
	return nil
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r, err := newRunner(cfg, db)
	if err != nil {
		return err
	}

	handler := api.NewHandler(store.New(db), r, trends.NewScorer(cfg.TrendFeeds), cfg.OutboundTimeout)
	return server.RunServer(handler, cfg.ListenAddr(), log.Logger, cfg.APIKey)
}

// runSeed loads the YAML seed file into the store. reset drops the database
// file first so the seed starts from an empty schema.
func runSeed(cfg *config.Config, reset bool) error {
	if reset {
		log.Info().Str("path", cfg.DBPath).Msg("Resetting database before seed")
		if err := database.DeleteDB(cfg.DBPath); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return seed.NewSeeder(store.New(db)).Seed(context.Background(), cfg.SeedPath)
}
