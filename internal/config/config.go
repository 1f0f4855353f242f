package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/negokaz/excel-handle/internal/excel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	Backend     string
	Background  bool
	CallTimeout time.Duration
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
// Logs always go to stderr: stdout carries the MCP protocol.
func SetupEnvironment() {
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Backend:    excel.BackendAuto,
		Background: true,
	}

	if backend := os.Getenv("EXCEL_BACKEND"); backend != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(backend))
	}
	if _, err := excel.NewDispatcher(cfg.Backend, 0); err != nil {
		return nil, fmt.Errorf("invalid EXCEL_BACKEND: %w", err)
	}

	if background := os.Getenv("EXCEL_BACKGROUND"); background != "" {
		v, err := strconv.ParseBool(background)
		if err != nil {
			return nil, fmt.Errorf("invalid EXCEL_BACKGROUND %q: %w", background, err)
		}
		cfg.Background = v
	}

	if timeout := os.Getenv("EXCEL_CALL_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid EXCEL_CALL_TIMEOUT %q: %w", timeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid EXCEL_CALL_TIMEOUT %q: must not be negative", timeout)
		}
		cfg.CallTimeout = d
	}

	return cfg, nil
}

// Dispatcher returns the dispatcher for the configured backend.
func (c *Config) Dispatcher() (excel.Dispatcher, error) {
	return excel.NewDispatcher(c.Backend, c.CallTimeout)
}
