// internal/logger/logger.go
package logger

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ---- ROTATION ----

const (
	RotateMaxSize    = 30 // MB
	RotateMaxAge     = 90 // days
	RotateMaxBackups = 10
	RotateLocalTime  = true
	RotateCompress   = true
)

const TimestampFormat = "2006-01-02 15:04:05"

// Config selects level and outputs.
type Config struct {
	Level string
	// File, when set, receives a rotated copy of every entry.
	File    string
	Console io.Writer
}

// New builds a logger. An empty level means info.
func New(cfg Config) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Annotatef(err, "log level %q", cfg.Level)
		}
		level = lvl
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	log := logrus.New()
	log.Level = level
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	}
	log.Out = console

	if cfg.File != "" {
		log.Out = io.MultiWriter(console, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    RotateMaxSize,
			MaxAge:     RotateMaxAge,
			MaxBackups: RotateMaxBackups,
			LocalTime:  RotateLocalTime,
			Compress:   RotateCompress,
		})
	}
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}
