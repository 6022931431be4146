package utils

import (
	"io"
	"log"
	"os"
)

// LoggerConfig defines how the application logger is built
type LoggerConfig struct {
	// Log format (text/json)
	Format string
	// Output stream, stdout when nil
	Output io.Writer
	// Enable ANSI colors for the console prefix
	EnableColors bool
}

// InitLogger builds the application logger shared by services and middleware
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[SkillNexis] "

	var logger *log.Logger
	if cfg.Format == "json" {
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC)
	} else {
		if cfg.EnableColors {
			prefix = "\033[36m" + prefix + "\033[0m"
		}
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
	}

	return logger
}

// DiscardLogger is used by tests and by components built without a logger.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
