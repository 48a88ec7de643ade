// Package config loads the service configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Store     Store     `yaml:"store"`
	GameData  GameData  `yaml:"gamedata"`
	Simulator Simulator `yaml:"simulator"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // console or json
}

type Store struct {
	Driver string `yaml:"driver"` // memory or sqlite
	Path   string `yaml:"path"`
}

// GameData is read from Path when set, otherwise fetched from URL.
type GameData struct {
	Path     string        `yaml:"path"`
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type Simulator struct {
	DefaultIterations int   `yaml:"default_iterations"`
	MaxIterations     int   `yaml:"max_iterations"`
	Workers           int   `yaml:"workers"` // 0 = GOMAXPROCS
	Seed              int64 `yaml:"seed"`    // 0 = time based
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Encoding: "console"},
		Store:  Store{Driver: "memory", Path: "stfc.db"},
		GameData: GameData{
			CacheTTL: 10 * time.Minute,
		},
		Simulator: Simulator{
			DefaultIterations: 1000,
			MaxIterations:     100000,
		},
	}
}

// Load reads path over the defaults. An empty path falls back to STFC_CONFIG;
// a missing file is not an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("STFC_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if p := os.Getenv("STFC_DB"); p != "" {
		c.Store.Driver = "sqlite"
		c.Store.Path = p
	}
	c.GameData.Path = getenv("STFC_GAMEDATA", c.GameData.Path)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("STFC_SIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Simulator.Workers = n
		}
	}
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Simulator.DefaultIterations <= 0 {
		return errors.New("config: simulator.default_iterations must be positive")
	}
	if c.Simulator.MaxIterations < c.Simulator.DefaultIterations {
		return errors.New("config: simulator.max_iterations below default_iterations")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
