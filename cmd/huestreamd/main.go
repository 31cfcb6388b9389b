package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huestreamd/internal/app"
	"github.com/dokzlo13/huestreamd/internal/config"
	"github.com/dokzlo13/huestreamd/internal/db"
	"github.com/dokzlo13/huestreamd/internal/hue"
	"github.com/dokzlo13/huestreamd/internal/state"
)

const devicetype = "huestreamd"

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.Usage = usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logging
	setupLogging(cfg.Log.Level, cfg.Log.UseJSON, cfg.Log.Colors)

	switch flag.Arg(0) {
	case "pair":
		runPair(cfg)
	case "groups":
		runGroups(cfg)
	case "", "run":
		runStream(cfg, configPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: huestreamd [flags] [command]

Commands:
  run     Stream the configured effect to the bridge (default)
  pair    Discover a bridge and register an application key
  groups  List entertainment configurations on the bridge

Flags:
`)
	flag.PrintDefaults()
}

// runStream starts the full streaming application.
func runStream(cfg *config.Config, configPath string) {
	log.Info().Str("config", configPath).Msg("Starting huestreamd")

	// Create application
	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	// Start the application
	if err := application.Start(ctx); err != nil {
		application.Stop()
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for shutdown
	application.Wait()

	// Graceful shutdown
	if err := application.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

// runPair discovers a bridge, registers an application key and persists the
// resulting credentials for later runs.
func runPair(cfg *config.Config) {
	ctx := app.SignalContext()

	host := cfg.Hue.Bridge
	if host == "" {
		log.Info().Msg("Discovering bridges...")
		bridges, err := hue.Discover(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Bridge discovery failed")
		}
		if len(bridges) == 0 {
			log.Fatal().Msg("No bridges found on the local network")
		}
		host = bridges[0].Host
		log.Info().Str("host", host).Msg("Found bridge")
	}

	creds, err := hue.Pair(ctx, host, devicetype)
	if err != nil {
		log.Fatal().Err(err).Msg("Pairing failed")
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	store := state.NewTypedStore[hue.Credentials](state.NewStore(database.DB), app.CredentialsKind)
	if err := store.Set(app.CredentialsID, *creds); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist credentials")
	}

	log.Info().
		Str("bridge", creds.Bridge).
		Str("app_key", creds.AppKey).
		Msg("Paired and stored credentials")
}

// runGroups lists the entertainment configurations known to the bridge.
func runGroups(cfg *config.Config) {
	services, err := app.NewServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer services.Close()

	ctx, cancel := context.WithTimeout(app.SignalContext(), cfg.Hue.Timeout.Duration())
	defer cancel()

	configs, err := services.Hue.GetEntertainmentConfigurations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list entertainment configurations")
	}

	if len(configs) == 0 {
		fmt.Println("No entertainment configurations found")
		return
	}

	for _, c := range configs {
		status := ""
		if c.Active() {
			status = " [streaming]"
		}
		fmt.Printf("%s  %s (%s, %d channels)%s\n", c.ID, c.Metadata.Name, c.ConfigurationType, len(c.Channels), status)
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
