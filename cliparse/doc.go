// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A local .env file is loaded first (via godotenv) so dev settings can live
next to the binary; a missing .env is not an error.

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseType: "sqlite" (default) or "postgres"
  - DatabasePath: SQLite file path (default: data/app.db)
  - DatabaseURL: PostgreSQL connection string (required for postgres)
  - LoadCSV: CSV file loaded in replace mode at startup and on admin reload
  - AdminKeySalt: Secret for the reload endpoint's admin key HMAC

# CLI Flags

	-p           Server port
	-t           Database type
	-d           SQLite database file path
	-u           PostgreSQL connection string
	-load        CSV file to load at startup
	--admin-salt Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_TYPE  → -t
	DATABASE_PATH  → -d
	DATABASE_URL   → -u
	LOAD_CSV       → -load
	ADMIN_KEY_SALT → --admin-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - PORT is set but not numeric
  - the database type is neither sqlite nor postgres
  - the type is postgres and no DATABASE_URL is provided

AdminKeySalt and LoadCSV are optional; without them the admin reload
endpoint responds 503.
*/
package cliparse
