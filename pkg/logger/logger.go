package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options controls level and output of a logger built by New.
type Options struct {
	Level       string
	Format      string // "text", "json" or empty to pick by environment
	Development bool
	Output      io.Writer
}

// New builds the service logger. An empty level means debug in development and
// info elsewhere; an empty format means colored text in development and JSON
// elsewhere.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	level := opts.Level
	if level == "" {
		if opts.Development {
			level = "debug"
		} else {
			level = "info"
		}
	}

	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		log.SetLevel(parsed)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("Invalid LOG_LEVEL, using INFO")
	}

	format := strings.ToLower(opts.Format)
	if format == "" && !opts.Development {
		format = FormatJSON
	}
	if format == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     opts.Development,
		})
	}

	if opts.Output != nil {
		log.SetOutput(opts.Output)
	} else {
		log.SetOutput(os.Stdout)
	}

	return log
}

// WithService tags every entry with the emitting service
func WithService(log *logrus.Logger, serviceName string) *logrus.Entry {
	return log.WithField("service", serviceName)
}

// NewTestLogger returns a logger that only reports errors, for use in tests
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// WithRequestContext tags entries with the request id assigned by the HTTP layer
func WithRequestContext(log *logrus.Logger, requestID string) *logrus.Entry {
	if requestID == "" {
		return logrus.NewEntry(log)
	}
	return log.WithField("request_id", requestID)
}
