// Package config resolves quantprep settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds all runtime configuration.
type Config struct {
	// DBPath is the SQLite database path. Empty means store.DefaultDBPath.
	DBPath string

	// CatalogPath is the question catalog JSON file.
	CatalogPath string

	// UserID identifies the learner whose progress is used.
	UserID string

	// EnforceTimeLimit rejects answers after a test's deadline.
	EnforceTimeLimit bool
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		CatalogPath:      "processed_questions.json",
		UserID:           "default",
		EnforceTimeLimit: true,
	}
}

// FromEnv loads DefaultEnvFile, if it exists, and builds a Config from
// environment variables, falling back to defaults for unset values.
// Variables already set in the environment win over the file.
func FromEnv() (Config, error) {
	return FromEnvFile(DefaultEnvFile)
}

// FromEnvFile is FromEnv with an explicit env file path. A missing file is
// not an error.
func FromEnvFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()

	if p := os.Getenv("QUANTPREP_DB"); p != "" {
		cfg.DBPath = p
	}
	if p := os.Getenv("QUANTPREP_CATALOG"); p != "" {
		cfg.CatalogPath = p
	}
	if u := os.Getenv("QUANTPREP_USER"); u != "" {
		cfg.UserID = u
	}
	if v := os.Getenv("QUANTPREP_ENFORCE_TIME_LIMIT"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("QUANTPREP_ENFORCE_TIME_LIMIT: %w", err)
		}
		cfg.EnforceTimeLimit = b
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CatalogPath) == "" {
		return fmt.Errorf("catalog path is required (set QUANTPREP_CATALOG or --catalog)")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("user id is required (set QUANTPREP_USER or --user)")
	}
	return nil
}
