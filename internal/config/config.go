package config

import (
	"blackjack-server/internal/util"
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the blackjack server
type Config struct {
	loaded          bool
	Host            string        `yaml:"host" envconfig:"host"`
	Port            int           `yaml:"port" envconfig:"port"`
	StartingBalance int           `yaml:"startingBalance" envconfig:"starting_balance"`
	DealerDelay     time.Duration `yaml:"dealerDelay" envconfig:"dealer_delay"`
	Shuffle         string        `yaml:"shuffle" envconfig:"shuffle"`
	// StatusAddr is the listen address of the HTTP status server, empty disables it
	StatusAddr string `yaml:"statusAddr" envconfig:"status_addr"`
	// WebSocket adds the /ws endpoint to the status server
	WebSocket bool `yaml:"websocket" envconfig:"websocket"`
	Log       struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cfg := Config{
		Host:            "0.0.0.0",
		Port:            5999,
		StartingBalance: 10000,
		DealerDelay:     time.Second,
		Shuffle:         "math",
	}

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Addr returns the host:port of the game listener
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values come from the defaults, then the YAML file (if it exists), then a .env file, then the environment.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("BJ_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := godotenv.Load(util.Getenv("BJ_ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := envconfig.Process("bj", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
