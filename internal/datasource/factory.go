package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchups/internal/config"
	"github.com/yourusername/matchups/internal/logger"
)

// SourceType represents the type of data source
type SourceType string

const (
	// FileSourceType reads a local JSON file
	FileSourceType SourceType = FileSourceName
	// HTTPSourceType fetches the JSON document over HTTP
	HTTPSourceType SourceType = HTTPSourceName
)

// Factory creates MatchupSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, log *logrus.Logger) *Factory {
	return &Factory{
		logger: log,
		config: cfg,
	}
}

// Create builds the configured source, wrapped in a cache when enabled
func (f *Factory) Create() (MatchupSource, error) {
	source, err := f.createBase(SourceType(f.config.Data.Source))
	if err != nil {
		return nil, err
	}

	if !f.config.Cache.Enabled {
		return source, nil
	}

	ttl := f.config.GetCacheTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	return NewCachedSource(source, ttl, f.dataLogger()), nil
}

func (f *Factory) createBase(sourceType SourceType) (MatchupSource, error) {
	switch sourceType {
	case FileSourceType:
		if f.config.Data.Path == "" {
			return nil, fmt.Errorf("file source requires data.path")
		}
		return NewFileSource(f.config.Data.Path, f.dataLogger()), nil

	case HTTPSourceType:
		if f.config.Data.URL == "" {
			return nil, fmt.Errorf("http source requires data.url")
		}
		client := NewRateLimitedHTTPClient(HTTPClientConfigFrom(f.config.Data.HTTP), f.logger)
		return NewHTTPSource(f.config.Data.URL, client, f.dataLogger()), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

func (f *Factory) dataLogger() *logger.DataLogger {
	if f.logger == nil {
		return nil
	}
	return logger.NewDataLogger(f.logger)
}
