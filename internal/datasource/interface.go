package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/matchups/internal/models"
)

// MatchupSource defines the interface for reading the matchup document
type MatchupSource interface {
	// Load reads and parses the full matchup table
	Load(ctx context.Context) (models.MatchupTable, error)

	// Ping checks that the document is reachable without parsing it
	Ping(ctx context.Context) error

	// Name returns the name of the data source
	Name() string

	// Location returns the path or URL being read
	Location() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes both the DataUnavailable condition and the underlying cause
func (e DataSourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{models.ErrDataUnavailable}
	}
	return []error{models.ErrDataUnavailable, e.Err}
}

// Common error codes
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeReadFailed   = "read_failed"
	ErrCodeInvalidData  = "invalid_data"
	ErrCodeNetworkError = "network_error"
	ErrCodeServerError  = "server_error"
	ErrCodeCircuitOpen  = "circuit_open"
)

// Error constructors
var (
	ErrNotFound    = errors.New("data not found")
	ErrServerError = errors.New("server error")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
