package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the process logger: text output in development, JSON
// elsewhere. level overrides the environment default when it parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown log level; keeping default")
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that drops everything; used by tests and tools.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogError logs msg at error level with err under the "error" field.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	if logger == nil {
		return
	}
	logger.WithFields(fields).Info(msg)
}
