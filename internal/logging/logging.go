// Package logging configures the logrus logger shared by the engine, the
// HTTP API, and the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup builds a logger writing to stdout with the given level and format
// ("json" or "text"). Unknown levels fall back to info.
func Setup(level, format string) *logrus.Logger {
	return New(os.Stdout, level, format)
}

// New builds a logger writing to out.
func New(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(ParseLevel(level))

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(logger *logrus.Logger, component string) *logrus.Entry {
	if logger == nil {
		return logrus.WithField("component", component)
	}
	return logger.WithField("component", component)
}
