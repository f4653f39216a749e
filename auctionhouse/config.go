package auctionhouse

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/auction"
	"github.com/streamlot/streamlot/auctionhouse/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := defaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Redis  RedisConfig       `toml:"redis"`
	Server ServerConfig      `toml:"server"`
	Engine EngineConfig      `toml:"engine"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// RedisConfig configures the optional event publisher. An empty addr
// disables publication; the engine then only logs events.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

type ServerConfig struct {
	Addr          string `toml:"addr"`
	RateLimit     int    `toml:"rate_limit"`
	RateWindowSec int    `toml:"rate_window_sec"`
}

func (c ServerConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSec) * time.Second
}

// EngineConfig holds the bidding-policy knobs. MinIncrement is a decimal
// string because it is money, not a float.
type EngineConfig struct {
	MinIncrement       string `toml:"min_increment"`
	DefaultDurationSec int    `toml:"default_duration_sec"`
	MinDurationSec     int    `toml:"min_duration_sec"`
	MaxDurationSec     int    `toml:"max_duration_sec"`
	SweepIntervalSec   int    `toml:"sweep_interval_sec"`
}

func (c EngineConfig) Policy() (auction.Policy, error) {
	inc, err := decimal.NewFromString(c.MinIncrement)
	if err != nil {
		return auction.Policy{}, fmt.Errorf("invalid engine.min_increment %q: %w", c.MinIncrement, err)
	}
	return auction.Policy{
		MinIncrement:    inc,
		DefaultDuration: time.Duration(c.DefaultDurationSec) * time.Second,
		MinDuration:     time.Duration(c.MinDurationSec) * time.Second,
		MaxDuration:     time.Duration(c.MaxDurationSec) * time.Second,
	}, nil
}

func (c EngineConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo, Format: "text"},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		Redis: RedisConfig{Channel: "auction_events"},
		Server: ServerConfig{
			Addr:          ":8080",
			RateLimit:     20,
			RateWindowSec: 1,
		},
		Engine: EngineConfig{
			MinIncrement:       "0.01",
			DefaultDurationSec: 30,
			MinDurationSec:     10,
			MaxDurationSec:     86400,
			SweepIntervalSec:   5,
		},
	}
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return fmt.Errorf("db.host and db.database must be set")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateWindowSec <= 0 {
		return fmt.Errorf("server.rate_limit and server.rate_window_sec must be > 0")
	}
	if c.Engine.DefaultDurationSec <= 0 || c.Engine.SweepIntervalSec <= 0 {
		return fmt.Errorf("engine durations must be > 0")
	}
	if c.Engine.MinDurationSec > c.Engine.DefaultDurationSec || c.Engine.DefaultDurationSec > c.Engine.MaxDurationSec {
		return fmt.Errorf("engine duration bounds must satisfy min <= default <= max")
	}
	if _, err := c.Engine.Policy(); err != nil {
		return err
	}
	return nil
}
