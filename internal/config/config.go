// Package config provides YAML-based configuration loading for the puzzle
// games and the servers that host them.
package config

import "time"

// Config is the top-level configuration file layout.
type Config struct {
	T2048   T2048Config   `yaml:"t2048"`
	Sokoban SokobanConfig `yaml:"sokoban"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
}

// T2048Config contains rules for the sliding-tile game.
type T2048Config struct {
	WinValue int     `yaml:"win_value"` // Tile value that wins the session
	Spawn4   float64 `yaml:"spawn4"`    // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// SokobanConfig contains settings for the box-pushing game.
type SokobanConfig struct {
	// LevelsDir is a directory of YAML level files.
	// Empty means the built-in levels are used.
	LevelsDir string `yaml:"levels_dir"`
}

// SSHConfig contains settings for the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig contains settings for the browser API server.
type WebConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Empty allows any origin
}
