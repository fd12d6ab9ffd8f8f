package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags are the command-line settings. They are registered on a pflag set
// (the cobra root's persistent flags) and resolved after parsing.
type Flags struct {
	ConfigPath string
	values     Config
}

// Bind registers the config flags on fs.
//
//	-c, --config string      config file (JSON or YAML)
//	-a, --addr string        address and port of the account service
//	    --db string          path to the local database
//	-i, --interval duration  online check interval
//	    --timeout duration   per-request timeout
//	    --log-level string   debug, info, warn or error
//	    --log-format string  text, json or zap
func (f *Flags) Bind(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringVarP(&f.ConfigPath, "config", "c", "", "config file (JSON or YAML)")
	fs.StringVarP(&f.values.ServerEndpointAddr, "addr", "a", d.ServerEndpointAddr, "address and port of the account service")
	fs.StringVar(&f.values.DBPath, "db", d.DBPath, "path to the local database")
	fs.DurationVarP(&f.values.OnlineCheckInterval, "interval", "i", d.OnlineCheckInterval, "online check interval")
	fs.DurationVar(&f.values.RequestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	fs.StringVar(&f.values.LogLevel, "log-level", d.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&f.values.LogFormat, "log-format", d.LogFormat, "log format: text, json or zap")
}

// Load builds the Config: defaults, then the config file if one was given,
// then every flag the user set explicitly.
func (f *Flags) Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f.ConfigPath != "" {
		if err := cfg.LoadFile(f.ConfigPath); err != nil {
			return nil, err
		}
	}

	overrides := map[string]func(){
		"addr":       func() { cfg.ServerEndpointAddr = f.values.ServerEndpointAddr },
		"db":         func() { cfg.DBPath = f.values.DBPath },
		"interval":   func() { cfg.OnlineCheckInterval = f.values.OnlineCheckInterval },
		"timeout":    func() { cfg.RequestTimeout = f.values.RequestTimeout },
		"log-level":  func() { cfg.LogLevel = f.values.LogLevel },
		"log-format": func() { cfg.LogFormat = f.values.LogFormat },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if set, ok := overrides[fl.Name]; ok {
			set()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
