package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a logrus logger from c. When c.File is set, output goes
// to a size-rotated file and the returned closer must be closed on exit;
// otherwise the closer is a no-op.
func NewLogger(c Log) (*logrus.Logger, io.Closer, error) {
	level := c.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("config: log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(lvl)

	switch strings.ToLower(c.Format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("config: unknown log format %q", c.Format)
	}

	if c.File == "" {
		log.SetOutput(os.Stderr)
		return log, nopCloser{}, nil
	}
	rotator := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
	}
	log.SetOutput(rotator)
	return log, rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
