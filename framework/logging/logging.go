// Package logging builds the logrus logger shared by the container and the
// application kernel.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/config"
)

// Formats accepted by DI_LOG_FORMAT.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to stderr at cfg.LogLevel in cfg.LogFormat.
func New(cfg config.ContainerConfig) (*logrus.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with a caller-supplied writer.
func NewWithOutput(cfg config.ContainerConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "logging: DI_LOG_LEVEL %q", cfg.LogLevel)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)

	switch cfg.LogFormat {
	case "", FormatText:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("logging: DI_LOG_FORMAT %q is not %s or %s", cfg.LogFormat, FormatText, FormatJSON)
	}
	return l, nil
}
