package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides (BBPR_API_BASE_URL, ...)
const EnvPrefix = "BBPR"

// envFile is loaded from the working directory before the environment is read.
const envFile = ".env"

// Config is the top-level configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig configures the Bitbucket REST client
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	PageLength int           `mapstructure:"page_length"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MetadataConfig configures where build metadata for a named site is fetched from.
// URLTemplate supports the {site} and {env} placeholders.
type MetadataConfig struct {
	Environment string `mapstructure:"environment"`
	URLTemplate string `mapstructure:"url_template"`
}

// DisplayConfig controls how timestamps are rendered
type DisplayConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string `mapstructure:"timezone"`
}

// LogConfig controls the progress logger
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultPath returns ~/.config/bbpr/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "bbpr", "config.yaml")
}

// Load reads configuration from path (if it exists), the environment and an
// optional .env file in the working directory. A missing file is not an error.
func Load(path string) (*Config, error) {
	// Missing .env is fine; existing variables win over it.
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.bitbucket.org/2.0")
	v.SetDefault("api.page_length", 50)
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("metadata.environment", "dev")
	v.SetDefault("metadata.url_template", "https://{env}-{site}.pantheonsite.io/build-metadata.json")

	v.SetDefault("display.date_format", "2006-01-02 15:04:05")
	v.SetDefault("display.timezone", "Local")

	v.SetDefault("log.level", "info")
}

// Validate checks the values that cannot be defaulted away
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	// Bitbucket Cloud caps pagelen at 100.
	if c.API.PageLength < 1 || c.API.PageLength > 100 {
		return fmt.Errorf("api.page_length must be between 1 and 100, got %d", c.API.PageLength)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Metadata.Environment == "" {
		return fmt.Errorf("metadata.environment must not be empty")
	}
	if !strings.Contains(c.Metadata.URLTemplate, "{site}") {
		return fmt.Errorf("metadata.url_template must contain {site}")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves display.timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" || c.Display.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}
