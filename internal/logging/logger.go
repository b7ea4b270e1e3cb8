// Package logging builds the process-wide logrus logger.
//
// Usage:
//
//	log := logging.New(cfg.Log.Level, cfg.IsProduction())
//	log.WithField("movie_id", id).Info("details fetched")
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to stdout. Production gets JSON lines, every
// other environment gets the text formatter. An empty or unknown level
// falls back to info.
func New(level string, production bool) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, production)
}

// NewWithOutput is New with a caller supplied writer
func NewWithOutput(out io.Writer, level string, production bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if production {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil || level == "" {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
