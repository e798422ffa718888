package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/rickwphillips/commander-collector/internal/constants"
	"github.com/rickwphillips/commander-collector/internal/stats"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	FeedURL        string
	FeedToken      string
	FeedRatePerSec float64
	ConfigFile     string
	Stats          stats.Options
}

// fileConfig is the optional TOML file named by CONFIG_FILE.
type fileConfig struct {
	Stats stats.Options `toml:"stats"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "commander.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FeedURL:        getEnv("FEED_URL", ""),
		FeedToken:      getEnv("FEED_TOKEN", ""),
		FeedRatePerSec: constants.FeedRatePerSecond,
		ConfigFile:     getEnv("CONFIG_FILE", ""),
		Stats:          stats.DefaultOptions(),
	}

	if raw := os.Getenv("FEED_RATE_PER_SEC"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid FEED_RATE_PER_SEC %q", raw)
		}
		cfg.FeedRatePerSec = rate
	}

	if cfg.ConfigFile != "" {
		opts, err := LoadStatsOptions(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.Stats = opts
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("remote_feed", cfg.FeedURL != "").
		Float64("feed_rate_per_sec", cfg.FeedRatePerSec).
		Int("recent_window", cfg.Stats.RecentWindow).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadStatsOptions reads the [stats] table of a TOML file. Keys missing from
// the file keep their defaults.
func LoadStatsOptions(path string) (stats.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stats.Options{}, fmt.Errorf("failed to read config file: %w", err)
	}

	fc := fileConfig{Stats: stats.DefaultOptions()}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return stats.Options{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc.Stats, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
