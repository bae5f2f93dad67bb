package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dialforge/callwatch/internal/calls"
)

// Config is the top-level callwatch configuration.
type Config struct {
	InputPath       string  `mapstructure:"input_path"`
	MinAttemptGroup int     `mapstructure:"min_attempt_group"`
	Filters         Filters `mapstructure:"filters"`
	Output          Output  `mapstructure:"output"`
}

// Filters narrows the input table before any analysis runs. All values
// are optional; empty lists match everything.
type Filters struct {
	UseCases       []string `mapstructure:"use_cases"`
	Statuses       []string `mapstructure:"statuses"`
	Tasks          []string `mapstructure:"tasks"`
	MinDuration    float64  `mapstructure:"min_duration"`
	MaxDuration    float64  `mapstructure:"max_duration"`
	ExcludeNumbers []string `mapstructure:"exclude_numbers"`
}

// Spec converts the configured filters into the calls.FilterSpec applied
// upstream of the analytic core.
func (f Filters) Spec() calls.FilterSpec {
	spec := calls.FilterSpec{
		UseCases:       f.UseCases,
		MinDuration:    f.MinDuration,
		MaxDuration:    f.MaxDuration,
		ExcludeNumbers: f.ExcludeNumbers,
	}
	for _, s := range f.Statuses {
		spec.Statuses = append(spec.Statuses, calls.CallStatus(s))
	}
	for _, t := range f.Tasks {
		spec.Tasks = append(spec.Tasks, calls.TaskCompletion(t))
	}
	return spec
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input_path", "")
	v.SetDefault("min_attempt_group", DefaultMinAttemptGroup)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.InputPath = expandPath(cfg.InputPath)
	return &cfg, nil
}

// DBPath returns the full path to the SQLite snapshot database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
