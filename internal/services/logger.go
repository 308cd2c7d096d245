package services

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger for service. LOG_LEVEL picks the level,
// ENV=production switches to JSON output and GO_ENV=test silences everything.
func NewLogger(service string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if os.Getenv("GO_ENV") == "test" {
		logger.SetOutput(io.Discard)
	}

	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if strings.ToLower(os.Getenv("ENV")) == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger.WithField("service", service)
}
