// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	DefaultPort = 3318
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	PrincipalSalt  string
	AllowedOrigins []string
	LogLevel       slog.Level
	LogFormat      string
}

// ParseFlags reads flags, falling back to the environment and then to an
// optional dotenv file. CLI flags win over env, env wins over the file.
func ParseFlags(args []string) (Config, error) {
	var (
		cfg      Config
		envFile  string
		logLevel string
	)

	flags := pflag.NewFlagSet("quickly-ballot", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	flags.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", nil, "CORS allowed origins")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.PrincipalSalt, "principal-salt", "", "Principal ID salt (prefer env)")

	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	flags.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv.Load never overrides variables already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if len(cfg.AllowedOrigins) == 0 {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			for _, o := range strings.Split(origins, ",") {
				if o = strings.TrimSpace(o); o != "" {
					cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
				}
			}
		} else {
			cfg.AllowedOrigins = []string{"*"}
		}
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
		if cfg.LogFormat == "" {
			cfg.LogFormat = "text"
		}
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	// Secrets - MUST be provided
	if cfg.PrincipalSalt == "" {
		cfg.PrincipalSalt = os.Getenv("PRINCIPAL_SALT")
	}
	if cfg.PrincipalSalt == "" {
		return Config{}, errors.New("PRINCIPAL_SALT required")
	}

	return cfg, nil
}
