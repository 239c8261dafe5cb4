// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"menucart/internal/logger"
)

// Settings holds every tunable read from the environment.
type Settings struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`

	// MenuSource is either an http(s) URL or a local file path pointing at
	// the menu JSON array.
	MenuSource string `envconfig:"MENU_SOURCE" default:"data/menu.json"`

	DataDirectory string `envconfig:"DATA_DIRECTORY" default:"./data"`
	DatabaseFile  string `envconfig:"DATABASE_FILE"`

	LogsDirectory string `envconfig:"LOGS_DIRECTORY" default:"./logs"`
	LogFileFormat string `envconfig:"LOG_FILE_FORMAT" default:"menucart_%s.log"`
	TimeZone      string `envconfig:"TIME_ZONE" default:"Local"`

	FetchTimeoutSeconds int `envconfig:"FETCH_TIMEOUT_SECONDS" default:"10"`
}

var settings Settings

//
// --- Loaders ---
//

// LoadEnv reads .env and populates the settings struct.
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}

	if err := envconfig.Process("", &settings); err != nil {
		log.Fatalf("Failed to parse environment settings: %v", err)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	return logger.Config{
		LogsDirectory: settings.LogsDirectory,
		LogFileFormat: settings.LogFileFormat,
		TimeZone:      settings.TimeZone,
	}
}

// ConfigurePaths sets up folders and derived paths
func ConfigurePaths() error {
	if err := os.MkdirAll(settings.DataDirectory, 0775); err != nil {
		return fmt.Errorf("failed to create data directory '%s': %w", settings.DataDirectory, err)
	}

	if settings.DatabaseFile == "" {
		settings.DatabaseFile = filepath.Join(settings.DataDirectory, "menucart.db")
	}

	return nil
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	if settings.Environment == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

//
// --- Overrides (CLI flags win over environment) ---
//

func SetMenuSource(source string) {
	if source != "" {
		settings.MenuSource = source
	}
}

func SetDataDirectory(dir string) {
	if dir != "" {
		settings.DataDirectory = dir
		settings.DatabaseFile = ""
	}
}

//
// --- Getters (exported) ---
//

func MenuSource() string {
	return settings.MenuSource
}

// MenuSourceIsURL reports whether the menu source should be fetched over HTTP.
func MenuSourceIsURL() bool {
	return strings.HasPrefix(settings.MenuSource, "http://") ||
		strings.HasPrefix(settings.MenuSource, "https://")
}

func DataDirectory() string {
	return settings.DataDirectory
}

func DatabaseFile() string {
	return settings.DatabaseFile
}

func LogsDirectory() string {
	return settings.LogsDirectory
}

func FetchTimeout() time.Duration {
	return time.Duration(settings.FetchTimeoutSeconds) * time.Second
}
