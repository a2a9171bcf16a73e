package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/matchups/internal/logger"
	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/models"
)

// HTTPSourceName identifies the remote data source
const HTTPSourceName = "http"

// maxDocumentBytes caps the size of a remote matchup document
const maxDocumentBytes = 32 << 20

// HTTPSource fetches the matchup document from a URL on every Load
type HTTPSource struct {
	url    string
	client *RateLimitedHTTPClient
	logger *logger.DataLogger
}

// NewHTTPSource creates a new remote data source
func NewHTTPSource(url string, client *RateLimitedHTTPClient, dataLogger *logger.DataLogger) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: client,
		logger: dataLogger,
	}
}

// Name returns the name of the data source
func (s *HTTPSource) Name() string {
	return HTTPSourceName
}

// Location returns the document URL
func (s *HTTPSource) Location() string {
	return s.url
}

// Load fetches and parses the document
func (s *HTTPSource) Load(ctx context.Context) (models.MatchupTable, error) {
	start := time.Now()

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, s.fail(fetchError("cannot fetch "+s.url, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, s.fail(err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, s.fail(NewDataSourceError(HTTPSourceName, ErrCodeNetworkError, "cannot read response body", err))
	}

	table, err := models.ParseMatchupTable(data)
	if err != nil {
		return nil, s.fail(NewDataSourceError(HTTPSourceName, ErrCodeInvalidData, "cannot parse "+s.url, err))
	}

	elapsed := time.Since(start)
	metrics.RecordDataLoad(HTTPSourceName, len(table), elapsed.Seconds())
	if s.logger != nil {
		s.logger.LogDataLoad(HTTPSourceName, s.url, len(table), elapsed)
	}
	return table, nil
}

// Ping issues a HEAD request against the document URL.
// An open circuit fails without touching the network.
func (s *HTTPSource) Ping(ctx context.Context) error {
	if s.client.IsOpen() {
		return NewDataSourceError(HTTPSourceName, ErrCodeCircuitOpen, "circuit open for "+s.url, ErrCircuitOpen)
	}

	resp, err := s.client.Head(ctx, s.url)
	if err != nil {
		return fetchError("cannot reach "+s.url, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// Close releases idle connections held by the client
func (s *HTTPSource) Close() error {
	return s.client.Close()
}

// fetchError classifies a failed request as a rejected call or a network fault
func fetchError(message string, err error) error {
	if errors.Is(err, ErrCircuitOpen) {
		return NewDataSourceError(HTTPSourceName, ErrCodeCircuitOpen, message, err)
	}
	return NewDataSourceError(HTTPSourceName, ErrCodeNetworkError, message, err)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(HTTPSourceName, ErrCodeNotFound, resp.Request.URL.String()+" returned 404", ErrNotFound)
	case resp.StatusCode >= 500:
		return NewDataSourceError(HTTPSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrServerError)
	default:
		return NewDataSourceError(HTTPSourceName, ErrCodeReadFailed, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
}

func (s *HTTPSource) fail(err error) error {
	metrics.RecordDataLoadError(HTTPSourceName)
	if s.logger != nil {
		s.logger.LogDataLoadFailure(HTTPSourceName, s.url, err)
	}
	return err
}
