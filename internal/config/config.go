package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Addr         string        `yaml:"addr"`
	Dataset      string        `yaml:"dataset"`
	Geo          string        `yaml:"geo"`
	S3Region     string        `yaml:"s3_region"`
	DefaultYear  int           `yaml:"default_year"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second per client, 0 disables
	LogLevel     string        `yaml:"log_level"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

func Default() Config {
	return Config{
		Addr:         ":8080",
		Dataset:      "merged_gdp_pop.json",
		Geo:          "https://raw.githubusercontent.com/holtzy/D3-graph-gallery/master/DATA/world.geojson",
		DefaultYear:  2022,
		RateLimit:    20,
		LogLevel:     "info",
		FetchTimeout: 30 * time.Second,
	}
}

// Load reads defaults, then the YAML file named by WORLDSTATS_CONFIG, then
// the WORLDSTATS_* environment variables.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("WORLDSTATS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	}

	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("WORLDSTATS_ADDR", &cfg.Addr)
	setString("WORLDSTATS_DATASET", &cfg.Dataset)
	setString("WORLDSTATS_GEO", &cfg.Geo)
	setString("WORLDSTATS_S3_REGION", &cfg.S3Region)
	setString("WORLDSTATS_LOG_LEVEL", &cfg.LogLevel)

	if v := getenv("WORLDSTATS_DEFAULT_YEAR"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: WORLDSTATS_DEFAULT_YEAR: %v", ErrInvalid, err)
		}
		cfg.DefaultYear = y
	}
	if v := getenv("WORLDSTATS_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: WORLDSTATS_RATE: %v", ErrInvalid, err)
		}
		cfg.RateLimit = r
	}
	if v := getenv("WORLDSTATS_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: WORLDSTATS_FETCH_TIMEOUT: %v", ErrInvalid, err)
		}
		cfg.FetchTimeout = d
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty addr", ErrInvalid)
	case c.Dataset == "":
		return fmt.Errorf("%w: empty dataset location", ErrInvalid)
	case c.Geo == "":
		return fmt.Errorf("%w: empty geo location", ErrInvalid)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: negative rate limit", ErrInvalid)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("%w: fetch timeout must be positive", ErrInvalid)
	}
	_, err := c.Level()
	return err
}

// Level maps LogLevel to a gommon level.
func (c Config) Level() (log.Lvl, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
}
