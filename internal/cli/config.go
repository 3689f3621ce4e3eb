package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	AgentURL string
	Output   string
	Verbose  bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		AgentURL: getEnvOrDefault("LCATTR_AGENT", "http://127.0.0.1:7475"),
		Output:   "text",
		Verbose:  false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
