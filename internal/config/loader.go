package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when GALLERY_ENV_FILE is unset. It is optional.
const DefaultEnvFile = ".env"

// Config captures environment driven configuration values for the gallery service.
type Config struct {
	HTTPPort          int
	SQLitePath        string
	SQLiteBusyTimeout time.Duration
	LogLevel          string
	LogFormat         string
}

// Load parses configuration values from the process environment after
// merging the env file named by GALLERY_ENV_FILE. Variables already set in the
// environment win over the file.
//
// Optional fields fall back to defaults; every invalid value is reported by
// name in a single error.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:          8080,
		SQLitePath:        "gallery.db",
		SQLiteBusyTimeout: 5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "json",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("GALLERY_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "GALLERY_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if path := strings.TrimSpace(os.Getenv("GALLERY_SQLITE_PATH")); path != "" {
		if path == ":memory:" {
			invalid = append(invalid, "GALLERY_SQLITE_PATH")
		} else {
			cfg.SQLitePath = path
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("GALLERY_SQLITE_BUSY_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "GALLERY_SQLITE_BUSY_TIMEOUT")
		} else {
			cfg.SQLiteBusyTimeout = timeout
		}
	}

	if level := strings.ToLower(strings.TrimSpace(os.Getenv("GALLERY_LOG_LEVEL"))); level != "" {
		switch level {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "GALLERY_LOG_LEVEL")
		}
	}

	if format := strings.ToLower(strings.TrimSpace(os.Getenv("GALLERY_LOG_FORMAT"))); format != "" {
		switch format {
		case "json", "text":
			cfg.LogFormat = format
		default:
			invalid = append(invalid, "GALLERY_LOG_FORMAT")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// loadEnvFile merges the env file into the process environment. A missing
// default file is ignored; a missing file named explicitly is an error.
func loadEnvFile() error {
	path := strings.TrimSpace(os.Getenv("GALLERY_ENV_FILE"))
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
