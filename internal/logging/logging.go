// Package logging builds the logger shared by the seasnap commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. verbose enables debug messages.
func New(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}
