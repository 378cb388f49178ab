package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	componentKey = "component"
)

// LogConfig selects the verbosity and format of diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Init configures the standard logrus logger. Diagnostics always go to out so
// that stdout stays reserved for model output.
func (c LogConfig) Init(out io.Writer) error {
	level, err := c.level()
	if err != nil {
		return err
	}
	logrus.SetOutput(out)
	logrus.SetLevel(level)
	logrus.SetFormatter(c.formatter())
	return nil
}

func (c LogConfig) level() (logrus.Level, error) {
	name := strings.TrimSpace(c.Level)
	if name == "" {
		return logrus.WarnLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}

func (c LogConfig) formatter() logrus.Formatter {
	switch strings.TrimSpace(c.Format) {
	case "json":
		return &logrus.JSONFormatter{}
	default:
		return &logrus.TextFormatter{FullTimestamp: true}
	}
}

func Get() *logrus.Logger {
	return logrus.StandardLogger()
}

func WithComponent(component string) *logrus.Entry {
	return Get().WithField(componentKey, component)
}
