package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// InitLogger sets the level of the shared logger. Packages that grabbed the
// logger with GetLogger before this call see the new level too.
func InitLogger(level logrus.Level) {
	logger.SetLevel(level)
}

// GetLogger returns the process-wide logger.
func GetLogger() *logrus.Logger {
	return logger
}
