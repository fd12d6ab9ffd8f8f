// Package config loads runtime configuration for the wallet client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given with -c/--config. YAML when the name ends
//     in .yaml or .yml, JSON otherwise.
//  3. Command-line flags set explicitly by the user.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	server_endpoint_addr: 127.0.0.1:50051
//	db_path: wallet.db
//	online_check_interval: 3s
//	request_timeout: 10s
//	log_level: debug
//	log_format: zap
package config
