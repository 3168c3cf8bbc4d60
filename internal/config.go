package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// lunchmoneyTokenEnv is the only place the ledger credential is read from.
// The token is handed to the API client as a plain value afterwards.
const lunchmoneyTokenEnv = "LUNCHMONEY_ACCESS_TOKEN"

// Config represents the lunchsync configuration
type Config struct {
	// Lunch Money ledger configuration
	LunchMoney struct {
		URL   string `mapstructure:"url"`   // Lunch Money API base URL
		Token string `mapstructure:"-"`     // Access token, env only
	} `mapstructure:"lunchmoney"`

	// Quote source configuration
	Quotes struct {
		URL string `mapstructure:"url"` // Yahoo Finance base URL
	} `mapstructure:"quotes"`

	// NATS configuration for optional balance-update events
	NATS struct {
		URL     string `mapstructure:"url"`     // empty disables publishing
		Subject string `mapstructure:"subject"` // e.g. "lunchsync.updates"
	} `mapstructure:"nats"`

	// Database configuration for the optional sync journal
	Database struct {
		Path string `mapstructure:"path"` // SQLite file, empty disables the journal
	} `mapstructure:"database"`

	// Interval for watch mode, e.g. "15m"
	Interval string `mapstructure:"interval"`

	// UpdateNames controls rewriting asset names with refreshed price metadata
	UpdateNames bool `mapstructure:"update_names"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// LoadConfig loads the configuration from file, environment and defaults
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaultConfig(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Look for config in the current directory and in /etc/lunchsync/
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/lunchsync/")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Override with environment variables prefixed with LUNCHSYNC_
	v.SetEnvPrefix("LUNCHSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// The credential never lives in the config file
	config.LunchMoney.Token = os.Getenv(lunchmoneyTokenEnv)

	return &config, nil
}

// Validate checks that everything a sync run needs is present
func (c *Config) Validate() error {
	if c.LunchMoney.Token == "" {
		return fmt.Errorf("%s environment variable not set", lunchmoneyTokenEnv)
	}
	return nil
}

// setDefaultConfig sets default configuration values
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("lunchmoney.url", "https://dev.lunchmoney.app/v1")
	v.SetDefault("quotes.url", "https://query1.finance.yahoo.com")
	v.SetDefault("nats.subject", "lunchsync.updates")
	v.SetDefault("database.path", "")
	v.SetDefault("interval", "15m")
	v.SetDefault("update_names", true)
	v.SetDefault("debug", false)
}
