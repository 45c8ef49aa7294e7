// Package logging builds the logrus logger from the logging config section.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Uday9909/ExplainMyRepo/internal/config"
)

// New returns a logger configured from cfg. Invalid levels fall back to info
// and unopenable files fall back to stderr, each with a warning. The returned
// closer releases the log file, if one was opened.
func New(cfg config.LoggingConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	default:
		file, err := openFile(cfg.Output)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", cfg.Output, err)
		} else {
			log.SetOutput(file)
			closer = file
		}
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log, closer
}

// ToFile redirects terminal outputs to path, for when the TUI owns the screen.
func ToFile(cfg config.LoggingConfig, path string) config.LoggingConfig {
	switch strings.ToLower(cfg.Output) {
	case "", "stderr", "stdout":
		cfg.Output = path
	}
	return cfg
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openFile(path string) (*os.File, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
