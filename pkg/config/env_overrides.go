package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides applies selected runtime environment variables into config.
// It returns true when any value changed so callers can persist updated config.
func applyEnvOverrides(cfg *Config) bool {
	if cfg == nil {
		return false
	}

	changed := false

	setString := func(dst *string, keys ...string) {
		if value := lookupEnv(keys...); value != "" && *dst != value {
			*dst = value
			changed = true
		}
	}
	setInt := func(dst *int, keys ...string) {
		parsed, err := strconv.Atoi(lookupEnv(keys...))
		if err == nil && *dst != parsed {
			*dst = parsed
			changed = true
		}
	}
	setBool := func(dst *bool, keys ...string) {
		parsed, err := strconv.ParseBool(lookupEnv(keys...))
		if err == nil && *dst != parsed {
			*dst = parsed
			changed = true
		}
	}

	setString(&cfg.Storage.Type, "CONTACTBOOK_STORAGE_TYPE")
	setString(&cfg.Storage.DatabaseURL, "CONTACTBOOK_DATABASE_URL", "DATABASE_URL")
	setString(&cfg.Storage.FilePath, "CONTACTBOOK_STORAGE_FILE_PATH")
	setBool(&cfg.Storage.SSLEnabled, "CONTACTBOOK_STORAGE_SSL_ENABLED")
	setInt(&cfg.Storage.MaxOpenConns, "CONTACTBOOK_STORAGE_MAX_OPEN_CONNS")
	setInt(&cfg.Storage.MaxIdleConns, "CONTACTBOOK_STORAGE_MAX_IDLE_CONNS")

	// Postgres without an explicit URL: assemble one from POSTGRES_* variables.
	if strings.EqualFold(cfg.Storage.Type, "postgres") && strings.TrimSpace(cfg.Storage.DatabaseURL) == "" {
		pgUser := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
		pgPass := strings.TrimSpace(os.Getenv("POSTGRES_PASSWORD"))
		pgDB := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
		pgHost := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
		if pgHost == "" {
			pgHost = "localhost"
		}
		pgPort := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
		if pgPort == "" {
			pgPort = "5432"
		}
		if pgUser != "" && pgDB != "" {
			userInfo := pgUser
			if pgPass != "" {
				userInfo = pgUser + ":" + pgPass
			}
			cfg.Storage.DatabaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s", userInfo, pgHost, pgPort, pgDB)
			changed = true
		}
	}

	setString(&cfg.Server.Host, "CONTACTBOOK_HOST")
	setInt(&cfg.Server.Port, "CONTACTBOOK_PORT", "PORT")

	setString(&cfg.Logging.Level, "CONTACTBOOK_LOG_LEVEL")
	setBool(&cfg.Logging.JSON, "CONTACTBOOK_LOG_JSON")

	setString(&cfg.Client.BaseURL, "CONTACTBOOK_API_URL")
	setInt(&cfg.Client.TimeoutSeconds, "CONTACTBOOK_CLIENT_TIMEOUT")
	setInt(&cfg.Client.PageSize, "CONTACTBOOK_PAGE_SIZE")

	return changed
}

// lookupEnv returns the first non-blank value among keys, trimmed.
func lookupEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
