// Package config provides configuration loading and defaults for callwatch.
package config

// DefaultConfigDir is the default location for callwatch configuration.
const DefaultConfigDir = "~/.config/callwatch"

// DefaultDBName is the filename for the SQLite snapshot database.
const DefaultDBName = "callwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultMinAttemptGroup is the minimum group size below which the
// attempts view hides a row. Zero disables suppression. Suppression is
// display behavior only; analysis always covers every attempt index.
const DefaultMinAttemptGroup = 0

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
