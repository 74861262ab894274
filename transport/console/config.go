// Package console is a line-oriented transport for local runs.
//
// Every input line is "<id>[@handle] <payload>" where payload is a /command,
// a "!signal [value]", a "~" followed by raw media bytes, or plain text.
// Deliveries are printed with their keyboard as signal hints.
package console

import "github.com/kelseyhightower/envconfig"

type Config struct {
	// CONSOLE_COLOURS enables colorized deliveries
	Colours bool `envconfig:"CONSOLE_COLOURS" default:"true"`
	// CONSOLE_ENABLED reads events from stdin
	Enabled bool `envconfig:"CONSOLE_ENABLED" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
