package server

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds the process launch configuration parsed from environment
// variables and command line arguments.
type Config struct {
	DatabaseMode bool
	DatabaseURL  string
	HTTPMode     bool
	HTTPAddr     string
	Port         int
	SpecFiles    []string
	Summary      bool
	ValidateOnly bool
}

// LoadConfig parses args (without the program name) and the environment.
func LoadConfig(args []string) (*Config, error) {
	config := &Config{}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.DatabaseMode = true
		config.DatabaseURL = dbURL
		log.Println("Database mode enabled")
	}

	skipNext := false
	for i, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		switch arg {
		case "--http":
			if i+1 < len(args) {
				config.HTTPMode = true
				config.HTTPAddr = args[i+1]
				skipNext = true
			} else {
				return nil, fmt.Errorf("--http requires an address argument")
			}
		case "--summary":
			config.Summary = true
		case "--validate":
			config.ValidateOnly = true
		default:
			config.SpecFiles = append(config.SpecFiles, arg)
		}
	}

	if config.HTTPMode {
		log.Printf("HTTP mode enabled on %s", config.HTTPAddr)
		if len(config.HTTPAddr) > 1 && config.HTTPAddr[0] == ':' {
			if port, err := strconv.Atoi(config.HTTPAddr[1:]); err == nil {
				config.Port = port
			}
		}
	}

	return config, nil
}

// Validate checks the configuration for a runnable combination.
func (c *Config) Validate() error {
	if c.DatabaseMode && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for database mode")
	}
	if !c.DatabaseMode && len(c.SpecFiles) == 0 {
		return fmt.Errorf("no OpenAPI spec files provided")
	}
	return nil
}

// LogConfiguration logs the resolved configuration.
func (c *Config) LogConfiguration() {
	if c.DatabaseMode {
		log.Println("Running in database mode")
		log.Printf("Database URL: %s", maskSensitive(c.DatabaseURL))
	} else {
		log.Printf("Running in file mode with %d spec files", len(c.SpecFiles))
	}
	if c.HTTPMode {
		log.Printf("HTTP server will start on %s", c.HTTPAddr)
	}
}

// maskSensitive masks sensitive parts of URLs for logging.
func maskSensitive(url string) string {
	if len(url) > 20 {
		return url[:8] + "***" + url[len(url)-8:]
	}
	return "***"
}
