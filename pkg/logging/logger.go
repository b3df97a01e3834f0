package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings for the
// vmprog build/verify tooling.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Determine if JSON format should be used
	jsonFormat := os.Getenv("VMPROG_JSON_LOG") == "1"

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter("📦 ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ResolveLevel determines the configured log level, honoring (in order) an
// explicit CLI flag, then VMPROG_<TOOL>_LOG_LEVEL, then VMPROG_LOG_LEVEL,
// falling back to "info". This mirrors the teacher's builder precedence
// (CLI flag > tool-specific env var > general env var > default).
func ResolveLevel(cliLevel, toolEnvVar string) (level, source string) {
	if cliLevel != "" {
		return cliLevel, "CLI --log-level"
	}
	if toolEnvVar != "" {
		if v := os.Getenv(toolEnvVar); v != "" {
			return v, toolEnvVar
		}
	}
	if v := os.Getenv("VMPROG_LOG_LEVEL"); v != "" {
		return v, "VMPROG_LOG_LEVEL"
	}
	return "info", "default"
}
