package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the wallet client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the account service.
//   - DBPath: SQLite file holding the session and the welcome flag.
//   - OnlineCheckInterval: how often the shell probes server reachability.
//   - RequestTimeout: deadline applied to each remote call.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	ServerEndpointAddr  string
	DBPath              string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DBPath = "wallet.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.ServerEndpointAddr == "":
		return fmt.Errorf("%w: empty server address", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: empty database path", ErrInvalidConfig)
	case c.OnlineCheckInterval <= 0:
		return fmt.Errorf("%w: online check interval must be positive, got %s", ErrInvalidConfig, c.OnlineCheckInterval)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	return nil
}
