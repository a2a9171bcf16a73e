package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduleCacheRefresh(t *testing.T) {
	s := NewScheduler(&fakeRefresher{}, quietLogger())

	require.NoError(t, s.ScheduleCacheRefresh("*/5 * * * *"))
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.ScheduleCacheRefresh("@hourly"))
	assert.Error(t, s.Start())
}

func TestScheduleInvalidExpression(t *testing.T) {
	s := NewScheduler(&fakeRefresher{}, quietLogger())
	assert.Error(t, s.ScheduleCacheRefresh("every tuesday"))
	assert.Error(t, s.Start(), "a rejected expression schedules nothing")
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(&fakeRefresher{}, quietLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestRunRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	s := NewScheduler(refresher, quietLogger())

	s.RunRefresh()
	refresher.err = errors.New("source offline")
	s.RunRefresh()

	assert.Equal(t, int32(2), refresher.calls.Load())
}

// statsRefresher also reports cache counters
type statsRefresher struct {
	fakeRefresher
}

func (f *statsRefresher) Stats() (uint64, uint64, float64) {
	return 3, 1, 0.75
}

func TestRunRefreshLogsCacheStats(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	NewScheduler(&statsRefresher{}, log).RunRefresh()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Scheduled cache refresh completed", entry["msg"])
	assert.Equal(t, float64(3), entry["cache_hits"])
	assert.Equal(t, float64(1), entry["cache_misses"])
	assert.Equal(t, 0.75, entry["hit_ratio"])

	buf.Reset()
	NewScheduler(&fakeRefresher{}, log).RunRefresh()
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, buf.String(), "cache_hits")
}

func TestRefreshRunsOnSchedule(t *testing.T) {
	refresher := &fakeRefresher{}
	s := NewScheduler(refresher, quietLogger())

	require.NoError(t, s.ScheduleCacheRefresh("@every 1s"))
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool {
		return refresher.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
}
