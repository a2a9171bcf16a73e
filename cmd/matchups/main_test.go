package main

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchups/internal/config"
	"github.com/yourusername/matchups/internal/datasource"
)

func setupFixture(t *testing.T) {
	t.Helper()
	t.Setenv("MATCHUPS_DATA_PATH", "testdata/player_matchups.json")
	t.Setenv("MATCHUPS_RENDER_WRAP_DOCUMENT", "false")
	t.Setenv("MATCHUPS_APP_LOG_LEVEL", "error")

	configFile = "testdata/no_such_config.yaml"
	require.NoError(t, loadConfig(false))
	require.NoError(t, setupDependencies())
}

// runCommand executes the CLI with log output captured separately from stdout
func runCommand(t *testing.T, args ...string) (status int, stdout, logs string) {
	t.Helper()
	var out, logBuf bytes.Buffer
	rootCmd.SetOut(&out)
	logOutput = &logBuf
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		logOutput = os.Stderr
	})

	status = execute(args)
	return status, out.String(), logBuf.String()
}

func TestRenderPageIndex(t *testing.T) {
	setupFixture(t)

	var buf bytes.Buffer
	require.NoError(t, renderPage(context.Background(), &buf, "", false))
	assert.Equal(t,
		"<title>Players</title><b>Player</b><br>"+
			"<a href=\"/matchups?name=Alice\">Alice</a><br>"+
			"<a href=\"/matchups?name=Bob\">Bob</a><br>",
		buf.String())
}

func TestRenderPageDetail(t *testing.T) {
	setupFixture(t)

	var buf bytes.Buffer
	require.NoError(t, renderPage(context.Background(), &buf, "aLiCe", true))
	assert.Equal(t,
		"<title>Alice</title><b>Alice</b> (66.67%)<br>"+
			"<a href=\"/matchups?name=Bob\">Bob</a>: 2 - 1<br>",
		buf.String())

	buf.Reset()
	require.NoError(t, renderPage(context.Background(), &buf, "charlie", true))
	assert.Equal(t, "<b>Player not Found</b>", buf.String())
}

func TestPlayersCommand(t *testing.T) {
	t.Setenv("MATCHUPS_DATA_PATH", "testdata/player_matchups.json")
	t.Setenv("MATCHUPS_APP_LOG_LEVEL", "error")

	status, stdout, _ := runCommand(t, "players")
	assert.Equal(t, 0, status)
	assert.Equal(t, "Alice\nBob\n", stdout)
	assert.Equal(t, config.DefaultConfigPath, rootCmd.PersistentFlags().Lookup("config").DefValue)
}

func TestRenderCommandKeepsLogsOffStdout(t *testing.T) {
	t.Setenv("MATCHUPS_DATA_PATH", "testdata/player_matchups.json")
	t.Setenv("MATCHUPS_RENDER_WRAP_DOCUMENT", "false")
	t.Setenv("MATCHUPS_APP_LOG_LEVEL", "debug")

	status, stdout, logs := runCommand(t, "render", "aLiCe")
	assert.Equal(t, 0, status)
	assert.Equal(t,
		"<title>Alice</title><b>Alice</b> (66.67%)<br>"+
			"<a href=\"/matchups?name=Bob\">Bob</a>: 2 - 1<br>",
		stdout)
	assert.Contains(t, logs, "Player detail built")
	assert.NotContains(t, logs, "\x1b[")
}

func TestValidateCommandReportsFindings(t *testing.T) {
	t.Setenv("MATCHUPS_DATA_PATH", "testdata/suspicious_matchups.json")
	t.Setenv("MATCHUPS_APP_LOG_LEVEL", "info")

	status, stdout, logs := runCommand(t, "validate")
	assert.Equal(t, 1, status)
	assert.Equal(t,
		"Alice: win_pct out of range (0-100), got 150\n"+
			"Alice vs Bob: opponent has no record, its link shows Player not Found\n"+
			"bob: key is not in normalized form (\"Bob\"), detail lookup cannot reach it\n",
		stdout)
	assert.Contains(t, logs, "Matchup data has validation findings")

	t.Setenv("MATCHUPS_DATA_PATH", "testdata/player_matchups.json")
	status, stdout, _ = runCommand(t, "validate")
	assert.Equal(t, 0, status)
	assert.Empty(t, stdout)
}

func TestExplicitConfigMustExist(t *testing.T) {
	configFile = "testdata/no_such_config.yaml"
	assert.Error(t, loadConfig(true))
	assert.NoError(t, loadConfig(false))
}

func TestSighupInvalidatesCache(t *testing.T) {
	setupFixture(t)

	cached := datasource.NewCachedSource(datasource.NewFileSource("testdata/player_matchups.json", nil), time.Minute, nil)
	_, err := cached.Load(context.Background())
	require.NoError(t, err)

	signals := make(chan os.Signal, 2)
	signals <- syscall.SIGHUP
	signals <- syscall.SIGTERM
	assert.Equal(t, syscall.SIGTERM, waitForShutdown(signals, cached))

	_, err = cached.Load(context.Background())
	require.NoError(t, err)
	hits, misses, _ := cached.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(2), misses)
}
