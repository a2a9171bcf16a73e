package datasource

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/yourusername/matchups/internal/logger"
	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/models"
)

// FileSourceName identifies the local file data source
const FileSourceName = "file"

// FileSource reads the matchup document from disk on every Load
type FileSource struct {
	path   string
	logger *logger.DataLogger
}

// NewFileSource creates a new file data source
func NewFileSource(path string, dataLogger *logger.DataLogger) *FileSource {
	return &FileSource{
		path:   path,
		logger: dataLogger,
	}
}

// Name returns the name of the data source
func (s *FileSource) Name() string {
	return FileSourceName
}

// Location returns the file path
func (s *FileSource) Location() string {
	return s.path
}

// Load reads and parses the document
func (s *FileSource) Load(ctx context.Context) (models.MatchupTable, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.fail(s.readError(err))
	}

	table, err := models.ParseMatchupTable(data)
	if err != nil {
		return nil, s.fail(NewDataSourceError(FileSourceName, ErrCodeInvalidData, "cannot parse "+s.path, err))
	}

	elapsed := time.Since(start)
	metrics.RecordDataLoad(FileSourceName, len(table), elapsed.Seconds())
	if s.logger != nil {
		s.logger.LogDataLoad(FileSourceName, s.path, len(table), elapsed)
	}
	return table, nil
}

// Ping checks that the file exists and is a regular file
func (s *FileSource) Ping(ctx context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return s.readError(err)
	}
	if !info.Mode().IsRegular() {
		return NewDataSourceError(FileSourceName, ErrCodeReadFailed, s.path+" is not a regular file", nil)
	}
	return nil
}

func (s *FileSource) readError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return NewDataSourceError(FileSourceName, ErrCodeNotFound, s.path+" does not exist", err)
	}
	return NewDataSourceError(FileSourceName, ErrCodeReadFailed, "cannot read "+s.path, err)
}

func (s *FileSource) fail(err error) error {
	metrics.RecordDataLoadError(FileSourceName)
	if s.logger != nil {
		s.logger.LogDataLoadFailure(FileSourceName, s.path, err)
	}
	return err
}
