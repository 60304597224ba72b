package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Data    DataConfig              `mapstructure:"data"`
	Server  ServerConfig            `mapstructure:"server"`
	Query   QueryConfig             `mapstructure:"query"`
	Logging LoggingConfig           `mapstructure:"logging"`
	Presets map[string]PresetConfig `mapstructure:"presets"`
}

// DataConfig locates the content store holding the film entries
type DataConfig struct {
	Path      string `mapstructure:"path"`
	Container string `mapstructure:"container"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// QueryConfig tunes the filter evaluator
type QueryConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// PresetConfig is a named query kept in the config file
type PresetConfig struct {
	Params map[string]string `mapstructure:"params"`
	Where  string            `mapstructure:"where"`
}
