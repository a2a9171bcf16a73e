// Package logger provides data source logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DataLogger logs matchup document loads and cache activity.
type DataLogger struct {
	*logrus.Entry
}

// NewDataLogger creates a new data logger.
func NewDataLogger(baseLogger *logrus.Logger) *DataLogger {
	return &DataLogger{
		Entry: baseLogger.WithField("component", "data"),
	}
}

// LogDataLoad logs a successful document load.
func (dl *DataLogger) LogDataLoad(source, location string, players int, duration time.Duration) {
	dl.WithFields(logrus.Fields{
		"source":      source,
		"location":    location,
		"players":     players,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Matchup data loaded")
}

// LogDataLoadFailure logs a document that could not be read or parsed.
func (dl *DataLogger) LogDataLoadFailure(source, location string, err error) {
	dl.WithFields(logrus.Fields{
		"source":   source,
		"location": location,
	}).WithError(err).Error("Matchup data unavailable")
}

// LogCacheRefresh logs a scheduled cache refresh.
func (dl *DataLogger) LogCacheRefresh(players int, err error) {
	if err != nil {
		dl.WithError(err).Warn("Cache refresh failed, keeping previous entry")
		return
	}
	dl.WithField("players", players).Info("Cache refreshed")
}

// LogCacheInvalidation logs an explicit cache invalidation.
func (dl *DataLogger) LogCacheInvalidation(reason string) {
	dl.WithField("reason", reason).Info("Cache invalidated")
}
