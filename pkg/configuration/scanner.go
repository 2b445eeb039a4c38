// Package configuration loads the Scanner's and Server's YAML configuration,
// with environment-variable and (for the Scanner) CLI-flag overrides applied
// on top of file defaults.
package configuration

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/archivum/archivum/pkg/encoding"
)

// Scanner holds the Scanner's tunable configuration.
type Scanner struct {
	HashThreads     int      `yaml:"hashThreads"`
	BatchSize       int      `yaml:"batchSize"`
	FollowSymlinks  bool     `yaml:"followSymlinks"`
	SkipSystemDirs  bool     `yaml:"skipSystemDirs"`
	ExcludePatterns []string `yaml:"excludePatterns"`
	ExtractExif     bool     `yaml:"extractExif"`
}

// DefaultScanner returns the Scanner's baked-in defaults, used when no
// config file is supplied.
func DefaultScanner() Scanner {
	return Scanner{
		HashThreads:    0,
		BatchSize:      500,
		FollowSymlinks: false,
		SkipSystemDirs: true,
		ExtractExif:    true,
	}
}

// LoadScanner loads a Scanner configuration. If path is empty, defaults are
// used as the base. godotenv-sourced environment variables are applied on
// top, in the precedence order file < environment < CLI flags (CLI flags are
// applied by the caller after LoadScanner returns).
func LoadScanner(path string) (Scanner, error) {
	config := DefaultScanner()

	if path != "" {
		if err := encoding.LoadAndUnmarshalYAML(path, &config); err != nil {
			return Scanner{}, err
		}
	}

	applyScannerEnvOverrides(&config)

	return config, nil
}

// applyScannerEnvOverrides loads .env (if present) and overrides fields from
// ARCHIVUM_-prefixed environment variables.
func applyScannerEnvOverrides(config *Scanner) {
	_ = godotenv.Load()

	if v := os.Getenv("ARCHIVUM_HASH_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.HashThreads = n
		}
	}
	if v := os.Getenv("ARCHIVUM_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BatchSize = n
		}
	}
	if v := os.Getenv("ARCHIVUM_FOLLOW_SYMLINKS"); v != "" {
		config.FollowSymlinks = parseBool(v)
	}
	if v := os.Getenv("ARCHIVUM_SKIP_SYSTEM_DIRS"); v != "" {
		config.SkipSystemDirs = parseBool(v)
	}
	if v := os.Getenv("ARCHIVUM_EXCLUDE_PATTERNS"); v != "" {
		config.ExcludePatterns = strings.Split(v, ",")
	}
	if v := os.Getenv("ARCHIVUM_EXTRACT_EXIF"); v != "" {
		config.ExtractExif = parseBool(v)
	}
}

func parseBool(v string) bool {
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return parsed
}
