package backstage

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/velvetradio/backstage/backstage/database"
	"github.com/velvetradio/backstage/backstage/feed"
	"github.com/velvetradio/backstage/backstage/notifier"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	DB       database.DBConfig `toml:"db"`
	Redis    RedisConfig       `toml:"redis"`
	Feed     feed.Config       `toml:"feed"`
	Notifier notifier.Config   `toml:"notifier"`
	Charts   ChartsConfig      `toml:"charts"`
	Growth   GrowthConfig      `toml:"growth"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ChartsConfig struct {
	// RecomputeInterval between full-population rank passes.
	RecomputeInterval time.Duration `toml:"recompute_interval"`
	CacheSize         int           `toml:"cache_size"`
}

type GrowthConfig struct {
	// SweepInterval between due-artist sweeps; the engine's same-day
	// guard keeps repeated sweeps idempotent.
	SweepInterval time.Duration `toml:"sweep_interval"`
}
