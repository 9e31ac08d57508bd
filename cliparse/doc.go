// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - PrincipalSalt: Secret for deriving principal IDs from tokens (required)
  - AllowedOrigins: CORS origins (default: *)
  - LogLevel, LogFormat: slog level and text/json output

# CLI Flags

	-p, --port            Server port
	-d, --database-url    Database URL
	-t, --database-type   sqlite or postgres
	--principal-salt      Principal ID salt
	--allowed-origins     Comma-separated CORS origins
	--log-level           debug, info, warn, error
	--log-format          text or json
	--env-file            Dotenv file (default: .env, optional)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	PRINCIPAL_SALT  → --principal-salt
	ALLOWED_ORIGINS → --allowed-origins
	LOG_LEVEL       → --log-level
	LOG_FORMAT      → --log-format

CLI flags take precedence over environment variables, and variables already
in the environment take precedence over the dotenv file.

# Validation

ParseFlags returns an error if required values are missing or a value is not
one of the supported choices.
*/
package cliparse
