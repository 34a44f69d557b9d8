package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"token_pulse/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. TOKEN_PULSE_FEED_INTERVAL_MS.
const EnvPrefix = "TOKEN_PULSE_"

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수로 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		IntervalMS   int             `yaml:"interval_ms"`
		MaxChange    float64         `yaml:"max_change"`
		MinPrice     decimal.Decimal `yaml:"min_price"`
		Seed         uint64          `yaml:"seed"` // 0 = random
		RetryDelayMS int             `yaml:"retry_delay_ms"`
	} `yaml:"feed"`

	Storage struct {
		Path     string `yaml:"path"`      // sqlite catalog file
		SeedFile string `yaml:"seed_file"` // imported when the catalog is empty
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`

	Debug struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"` // pprof and /metrics
	} `yaml:"debug"`

	Summary struct {
		Schedule string `yaml:"schedule"` // cron spec with seconds
	} `yaml:"summary"`
}

// DefaultConfig returns the settings used when a field is left out of the file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "token-pulse"
	cfg.App.Version = "dev"
	cfg.Feed.IntervalMS = 2000
	cfg.Feed.MaxChange = 0.10
	cfg.Feed.MinPrice = decimal.New(1, -6)
	cfg.Feed.RetryDelayMS = 100
	cfg.Storage.Path = "data/token_pulse.db"
	cfg.Storage.SeedFile = "configs/tokens.yaml"
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	cfg.Debug.Addr = "localhost:6060"
	cfg.Summary.Schedule = "*/30 * * * * *"
	return cfg
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// 환경 변수 오버라이드
	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	// Feed
	if c.Feed.IntervalMS <= 0 {
		return domain.NewConfigError("feed.interval_ms", errors.New("must be positive"))
	}
	if c.Feed.MaxChange <= 0 || c.Feed.MaxChange >= 1 {
		return domain.NewConfigError("feed.max_change", fmt.Errorf("must be in (0, 1), got %v", c.Feed.MaxChange))
	}
	if !c.Feed.MinPrice.IsPositive() {
		return domain.NewConfigError("feed.min_price", errors.New("must be positive"))
	}
	if c.Feed.RetryDelayMS <= 0 {
		return domain.NewConfigError("feed.retry_delay_ms", errors.New("must be positive"))
	}

	// Storage
	if c.Storage.Path == "" {
		return domain.NewConfigError("storage.path", errors.New("required"))
	}

	// Logging
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return domain.NewConfigError("logging.level", fmt.Errorf("unknown level %q", c.Logging.Level))
	}

	// Debug server
	if c.Debug.Enabled && c.Debug.Addr == "" {
		return domain.NewConfigError("debug.addr", errors.New("required when debug is enabled"))
	}

	// Summary
	if c.Summary.Schedule != "" {
		if _, err := cron.NewParser(cronSpecFormat).Parse(c.Summary.Schedule); err != nil {
			return domain.NewConfigError("summary.schedule", err)
		}
	}

	return nil
}

// FeedInterval returns the tick interval as a duration.
func (c *Config) FeedInterval() time.Duration {
	return time.Duration(c.Feed.IntervalMS) * time.Millisecond
}

// RetryDelay returns the bridge retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Feed.RetryDelayMS) * time.Millisecond
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) error {
	if v := getEnv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := getEnv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getEnv("SEED_FILE"); v != "" {
		cfg.Storage.SeedFile = v
	}
	if v := getEnv("DEBUG_ADDR"); v != "" {
		cfg.Debug.Addr = v
		cfg.Debug.Enabled = true
	}
	if v := getEnv("SUMMARY_SCHEDULE"); v != "" {
		cfg.Summary.Schedule = v
	}

	if v := getEnv("FEED_INTERVAL_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewConfigError(EnvPrefix+"FEED_INTERVAL_MS", err)
		}
		cfg.Feed.IntervalMS = n
	}
	if v := getEnv("FEED_MAX_CHANGE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.NewConfigError(EnvPrefix+"FEED_MAX_CHANGE", err)
		}
		cfg.Feed.MaxChange = f
	}
	if v := getEnv("FEED_MIN_PRICE"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return domain.NewConfigError(EnvPrefix+"FEED_MIN_PRICE", err)
		}
		cfg.Feed.MinPrice = d
	}
	if v := getEnv("FEED_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return domain.NewConfigError(EnvPrefix+"FEED_SEED", err)
		}
		cfg.Feed.Seed = n
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}
