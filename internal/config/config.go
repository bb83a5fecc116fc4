package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Map   MapConfig   `yaml:"map" mapstructure:"map"`
	Data  DataConfig  `yaml:"data" mapstructure:"data"`
	GeoIP GeoIPConfig `yaml:"geoip" mapstructure:"geoip"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// MapConfig configures the rendered map.
type MapConfig struct {
	Width  int    `yaml:"width" mapstructure:"width"`
	Height int    `yaml:"height" mapstructure:"height"`
	Color  string `yaml:"color" mapstructure:"color"` // auto, always or never
}

// DataConfig selects the boundary dataset. An empty path uses the embedded one.
type DataConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Workers int    `yaml:"workers" mapstructure:"workers"`
}

// GeoIPConfig configures IP geolocation.
type GeoIPConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	URL           string `yaml:"url" mapstructure:"url"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MMDBPath      string `yaml:"mmdb_path" mapstructure:"mmdb_path"`
	RatePerMinute int    `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
}

// Timeout returns the HTTP timeout as a duration.
func (g GeoIPConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, an optional config file and the
// environment. An explicit file must exist; the default search path may be
// empty.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("whichcountry")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "whichcountry"))
		}
	}

	// Environment
	v.SetEnvPrefix("WHICHCOUNTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("map.width", 80)
	v.SetDefault("map.height", 24)
	v.SetDefault("map.color", "auto")
	v.SetDefault("data.path", "")
	v.SetDefault("data.workers", 0)
	v.SetDefault("geoip.provider", "ipapi")
	v.SetDefault("geoip.url", "http://ip-api.com/json/")
	v.SetDefault("geoip.timeout_secs", 5)
	v.SetDefault("geoip.mmdb_path", "")
	v.SetDefault("geoip.rate_per_minute", 45)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("config: file loaded", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Map.Width < 1 {
		problems = append(problems, "map.width must be at least 1")
	}
	if c.Map.Height < 1 {
		problems = append(problems, "map.height must be at least 1")
	}
	switch c.Map.Color {
	case "auto", "always", "never":
	default:
		problems = append(problems, "map.color must be auto, always or never")
	}
	if c.Data.Workers < 0 {
		problems = append(problems, "data.workers must not be negative")
	}
	switch strings.ToLower(c.GeoIP.Provider) {
	case "ipapi":
		if c.GeoIP.URL == "" {
			problems = append(problems, "geoip.url is required for the ipapi provider")
		}
	case "maxmind":
		if c.GeoIP.MMDBPath == "" {
			problems = append(problems, "geoip.mmdb_path is required for the maxmind provider")
		}
	default:
		problems = append(problems, "geoip.provider must be ipapi or maxmind")
	}
	if c.GeoIP.TimeoutSecs < 1 {
		problems = append(problems, "geoip.timeout_secs must be at least 1")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	zapCfg.DisableStacktrace = true

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
