// Package logger provides request logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger logs HTTP requests and player lookups.
type RequestLogger struct {
	*logrus.Entry
}

// NewRequestLogger creates a new request logger.
func NewRequestLogger(baseLogger *logrus.Logger) *RequestLogger {
	return &RequestLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs a completed request.
func (rl *RequestLogger) LogRequest(requestID, method, path string, status int, duration time.Duration) {
	entry := rl.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request completed")
}

// LogPlayerLookup logs the outcome of a player detail lookup.
func (rl *RequestLogger) LogPlayerLookup(requestID, query, normalized string, found bool) {
	rl.WithFields(logrus.Fields{
		"request_id": requestID,
		"query":      query,
		"player":     normalized,
		"found":      found,
	}).Debug("Player lookup")
}

// LogRenderFailure logs a page that could not be produced.
func (rl *RequestLogger) LogRenderFailure(requestID, view string, err error) {
	rl.WithFields(logrus.Fields{
		"request_id": requestID,
		"view":       view,
	}).WithError(err).Error("Failed to render page")
}
