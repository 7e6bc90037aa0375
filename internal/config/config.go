// Package config loads navbridge settings from defaults, a YAML file and
// NAVBRIDGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/navbridge/internal/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NAVBRIDGE_"

// Config holds every runtime setting of the navbridge binary.
type Config struct {
	LogLevel  string           `yaml:"log_level"`
	HTTP      HTTPConfig       `yaml:"http"`
	Redis     RedisConfig      `yaml:"redis"`
	Lock      LockConfig       `yaml:"lock"`
	MCP       MCPConfig        `yaml:"mcp"`
	Scenarios string           `yaml:"scenarios"`
	Sim       SimulationConfig `yaml:"simulation"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig enables event fan-out when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	Topic    string        `yaml:"topic"`
	History  int           `yaml:"history"`
	TTL      time.Duration `yaml:"ttl"`
}

// LockConfig guards the session with a Redis lock when Key is set.
type LockConfig struct {
	Key string        `yaml:"key"`
	TTL time.Duration `yaml:"ttl"`
}

type MCPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

// SimulationConfig drives the in-memory engine.
type SimulationConfig struct {
	Interval        time.Duration `yaml:"interval"`
	SpeedMultiplier float64       `yaml:"speed_multiplier"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		Redis: RedisConfig{
			Prefix:  "navbridge:",
			Topic:   "navigation",
			History: 100,
		},
		MCP:       MCPConfig{Transport: "stdio", Port: 8081},
		Scenarios: "scenarios",
		Sim: SimulationConfig{
			Interval:        time.Second,
			SpeedMultiplier: 1,
		},
	}
}

// LoadDotEnv loads environment variables from path. A missing file is not
// an error; variables already set win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load returns the defaults overlaid with the YAML file at path and then
// with environment overrides. An empty path skips the file. ${VAR}
// references in the file are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	num("REDIS_DB", &c.Redis.DB)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	str("REDIS_TOPIC", &c.Redis.Topic)
	num("REDIS_HISTORY", &c.Redis.History)
	dur("REDIS_TTL", &c.Redis.TTL)
	str("LOCK_KEY", &c.Lock.Key)
	dur("LOCK_TTL", &c.Lock.TTL)
	str("MCP_TRANSPORT", &c.MCP.Transport)
	num("MCP_PORT", &c.MCP.Port)
	str("SCENARIOS", &c.Scenarios)
	dur("SIM_INTERVAL", &c.Sim.Interval)

	if v, ok := lookup(EnvPrefix + "MCP_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sMCP_ENABLED: %w", EnvPrefix, err))
		} else {
			c.MCP.Enabled = b
		}
	}
	if v, ok := lookup(EnvPrefix + "SIM_SPEED"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sSIM_SPEED: %w", EnvPrefix, err))
		} else {
			c.Sim.SpeedMultiplier = f
		}
	}
	return errors.Join(errs...)
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.HTTP.Addr == "" {
		return errors.New("config: http.addr is required")
	}
	if c.Lock.Key != "" && c.Redis.Addr == "" {
		return errors.New("config: lock.key needs redis.addr")
	}
	if c.Redis.History < 0 {
		return fmt.Errorf("config: redis.history must not be negative, got %d", c.Redis.History)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("config: unknown mcp.transport %q", c.MCP.Transport)
	}
	if c.Sim.Interval <= 0 {
		return errors.New("config: simulation.interval must be positive")
	}
	if c.Sim.SpeedMultiplier <= 0 {
		return errors.New("config: simulation.speed_multiplier must be positive")
	}
	return nil
}
