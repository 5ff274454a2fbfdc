// Package logging configures the logrus logger shared by the renderer.
package logging

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "logging")
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger, nil
}

// Severity is a validation message severity, independent of the Vulkan
// binding's flag type.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// LevelFor maps a validation message severity onto a logrus level. Errors and
// warnings keep their weight; everything else is informational.
func LevelFor(s Severity) logrus.Level {
	switch s {
	case SeverityError:
		return logrus.ErrorLevel
	case SeverityWarning:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
