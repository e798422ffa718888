package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickwphillips/commander-collector/internal/constants"
	"github.com/rickwphillips/commander-collector/internal/stats"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "FEED_URL", "FEED_TOKEN", "FEED_RATE_PER_SEC", "CONFIG_FILE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "commander.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.FeedURL)
	assert.Equal(t, constants.FeedRatePerSecond, cfg.FeedRatePerSec)
	assert.Equal(t, stats.DefaultOptions(), cfg.Stats)
}

func TestLoad_FromEnvironmentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stats]\nrecent_window = 7\ntrend_margin = 12.5\n"), 0o644))

	t.Setenv("FEED_URL", "https://tracker.example.com/api")
	t.Setenv("FEED_TOKEN", "secret")
	t.Setenv("FEED_RATE_PER_SEC", "4.5")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "https://tracker.example.com/api", cfg.FeedURL)
	assert.Equal(t, "secret", cfg.FeedToken)
	assert.Equal(t, 4.5, cfg.FeedRatePerSec)
	assert.Equal(t, 7, cfg.Stats.RecentWindow)
	assert.Equal(t, 12.5, cfg.Stats.TrendMargin)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, stats.DefaultOptions().MinRankedGames, cfg.Stats.MinRankedGames)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("FEED_RATE_PER_SEC", "fast")
	_, err := Load(zerolog.Nop())
	assert.Error(t, err)

	t.Setenv("FEED_RATE_PER_SEC", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = Load(zerolog.Nop())
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[stats\nrecent_window = "), 0o644))
	t.Setenv("CONFIG_FILE", bad)
	_, err = Load(zerolog.Nop())
	assert.Error(t, err)
}
