package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер с уровнем из LOG_LEVEL; неизвестный уровень дает info
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
	return log
}
