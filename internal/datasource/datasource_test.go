package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchups/internal/config"
	"github.com/yourusername/matchups/internal/models"
)

const (
	fixturePath   = "testdata/player_matchups.json"
	truncatedPath = "testdata/truncated.json"
	missingPath   = "testdata/does_not_exist.json"
)

// countingSource is a MatchupSource fake that counts loads
type countingSource struct {
	loads atomic.Int32
	table models.MatchupTable
	err   error
}

func (s *countingSource) Load(ctx context.Context) (models.MatchupTable, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func (s *countingSource) Ping(ctx context.Context) error { return s.err }
func (s *countingSource) Name() string                   { return "counting" }
func (s *countingSource) Location() string               { return "memory" }

func fastHTTPConfig() HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 0
	return cfg
}

func TestFileSourceLoad(t *testing.T) {
	source := NewFileSource(fixturePath, nil)

	table, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, table.PlayerNames())
	assert.Equal(t, FileSourceName, source.Name())
	assert.Equal(t, fixturePath, source.Location())
}

func TestFileSourceReadsEveryCall(t *testing.T) {
	path := t.TempDir() + "/player_matchups.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"Alice": {}}`), 0o644))

	source := NewFileSource(path, nil)
	table, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, table.PlayerNames())

	require.NoError(t, os.WriteFile(path, []byte(`{"Alice": {}, "Zoe": {}}`), 0o644))
	table, err = source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Zoe"}, table.PlayerNames())
}

func TestFileSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", missingPath, ErrCodeNotFound},
		{"truncated json", truncatedPath, ErrCodeInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSource(tt.path, nil).Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrDataUnavailable))

			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, tt.code, dsErr.Code)
		})
	}
}

func TestFileSourcePing(t *testing.T) {
	assert.NoError(t, NewFileSource(fixturePath, nil).Ping(context.Background()))
	assert.Error(t, NewFileSource(missingPath, nil).Ping(context.Background()))
	assert.Error(t, NewFileSource("testdata", nil).Ping(context.Background()))
}

func TestHTTPSourceLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, fixturePath)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(fastHTTPConfig(), nil)
	defer client.Close()
	source := NewHTTPSource(server.URL, client, nil)

	table, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, table.PlayerNames())
	assert.NoError(t, source.Ping(context.Background()))
}

func TestHTTPSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	source := NewHTTPSource(server.URL, NewRateLimitedHTTPClient(fastHTTPConfig(), nil), nil)

	_, err := source.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"Alice": {"Bob": {"win": 1}}}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, NewRateLimitedHTTPClient(fastHTTPConfig(), nil), nil)

	table, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "1 - 0", models.WinLoss(table["Alice"].Opponents["Bob"]))
}

func TestHTTPSourceInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, NewRateLimitedHTTPClient(fastHTTPConfig(), nil), nil)

	_, err := source.Load(context.Background())
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestHTTPClientCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := fastHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerCooloff = time.Hour
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), server.URL)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPSourceCircuitOpen(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := fastHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 1
	cfg.CircuitBreakerCooloff = time.Hour
	source := NewHTTPSource(server.URL, NewRateLimitedHTTPClient(cfg, nil), nil)
	defer source.Close()

	_, err := source.Load(context.Background())
	require.Error(t, err)

	_, err = source.Load(context.Background())
	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeCircuitOpen, dsErr.Code)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	err = source.Ping(context.Background())
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeCircuitOpen, dsErr.Code)
	assert.Equal(t, int32(1), calls.Load())
}

// closingSource records Close calls
type closingSource struct {
	countingSource
	closed bool
}

func (s *closingSource) Close() error {
	s.closed = true
	return nil
}

func TestCachedSourceClose(t *testing.T) {
	inner := &closingSource{}
	require.NoError(t, NewCachedSource(inner, time.Minute, nil).Close())
	assert.True(t, inner.closed)

	assert.NoError(t, NewCachedSource(&countingSource{}, time.Minute, nil).Close())
}

func TestCachedSourceHitsAndMisses(t *testing.T) {
	inner := &countingSource{table: models.MatchupTable{"Alice": {}}}
	cached := NewCachedSource(inner, time.Minute, nil)

	for i := 0; i < 3; i++ {
		table, err := cached.Load(context.Background())
		require.NoError(t, err)
		assert.Contains(t, table, "Alice")
	}

	assert.Equal(t, int32(1), inner.loads.Load())
	hits, misses, ratio := cached.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 2.0/3.0, ratio, 0.0001)
}

func TestCachedSourceInvalidate(t *testing.T) {
	inner := &countingSource{table: models.MatchupTable{"Alice": {}}}
	cached := NewCachedSource(inner, time.Minute, nil)

	_, err := cached.Load(context.Background())
	require.NoError(t, err)

	cached.Invalidate("test")
	_, err = cached.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.loads.Load())
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	inner := &countingSource{err: NewDataSourceError("counting", ErrCodeReadFailed, "boom", nil)}
	cached := NewCachedSource(inner, time.Minute, nil)

	_, err := cached.Load(context.Background())
	require.Error(t, err)
	_, err = cached.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), inner.loads.Load())
}

func TestCachedSourceRefreshKeepsPreviousOnFailure(t *testing.T) {
	inner := &countingSource{table: models.MatchupTable{"Alice": {}}}
	cached := NewCachedSource(inner, time.Minute, nil)

	require.NoError(t, cached.Refresh(context.Background()))

	inner.err = errors.New("gone")
	require.Error(t, cached.Refresh(context.Background()))

	table, err := cached.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, table, "Alice")
}

func TestFactoryCreate(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{Source: "file", Path: fixturePath},
	}

	source, err := NewFactory(cfg, nil).Create()
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, source)

	cfg.Cache = config.CacheConfig{Enabled: true, TTLSeconds: 30}
	source, err = NewFactory(cfg, nil).Create()
	require.NoError(t, err)
	assert.IsType(t, &CachedSource{}, source)

	cfg.Cache = config.CacheConfig{}
	cfg.Data = config.DataConfig{Source: "http", URL: "http://localhost:1/m.json"}
	source, err = NewFactory(cfg, nil).Create()
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, source)

	cfg.Data.Source = "ftp"
	_, err = NewFactory(cfg, nil).Create()
	assert.Error(t, err)
}

func TestDataSourceErrorMessage(t *testing.T) {
	err := NewDataSourceError("file", ErrCodeNotFound, "x.json does not exist", os.ErrNotExist)
	assert.Contains(t, err.Error(), "file: not_found: x.json does not exist")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}
