package logging

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
}

// SetLevel sets the global logrus level. Empty or unknown levels fall back to info.
func SetLevel(level string) {
	if level == "" {
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Warnf("invalid log level '%s', using 'info'", level)
		l = logrus.InfoLevel
	}
	logrus.SetLevel(l)
}
