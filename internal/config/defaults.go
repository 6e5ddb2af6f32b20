package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// Default returns the hardcoded default configuration.
// It mirrors defaults/config.yaml and is used when the embedded file
// cannot be parsed.
func Default() Config {
	return Config{
		T2048: T2048Config{
			WinValue: 2048,
			Spawn4:   0.10,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address: ":8080",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConfigYAML
}
