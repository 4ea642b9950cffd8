package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/search"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type EngineConfig struct {
	DefaultDifficulty string        `mapstructure:"default_difficulty"`
	HardDepth         int           `mapstructure:"hard_depth"`
	MoveTimeout       time.Duration `mapstructure:"move_timeout"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Difficulty returns the configured default difficulty.
func (c *Config) Difficulty() ai.Difficulty {
	d, err := ai.ParseDifficulty(c.Engine.DefaultDifficulty)
	if err != nil {
		return ai.Medium
	}
	return d
}

// Load reads config.yaml from the working directory or ./config. Every key
// can be overridden from the environment, e.g. CHESSAI_ENGINE_HARD_DEPTH.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and the environment
	}
	return unmarshal(v)
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Enable environment variables
	v.SetEnvPrefix("CHESSAI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := loadDefaults()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("engine.default_difficulty", defaults.Engine.DefaultDifficulty)
	v.SetDefault("engine.hard_depth", defaults.Engine.HardDepth)
	v.SetDefault("engine.move_timeout", defaults.Engine.MoveTimeout)
	v.SetDefault("development.debug", defaults.Development.Debug)
	v.SetDefault("development.log_level", defaults.Development.LogLevel)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := ai.ParseDifficulty(c.Engine.DefaultDifficulty); err != nil {
		return fmt.Errorf("engine.default_difficulty: %w", err)
	}
	if c.Engine.HardDepth < 1 || c.Engine.HardDepth > search.MaxDepth {
		return fmt.Errorf("engine.hard_depth must be between 1 and %d, got %d", search.MaxDepth, c.Engine.HardDepth)
	}
	if c.Engine.MoveTimeout <= 0 {
		return fmt.Errorf("engine.move_timeout must be positive, got %s", c.Engine.MoveTimeout)
	}
	return nil
}

func loadDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Engine: EngineConfig{
			DefaultDifficulty: string(ai.Medium),
			HardDepth:         search.DefaultDepth,
			MoveTimeout:       10 * time.Second,
		},
		Development: DevelopmentConfig{
			Debug:    false,
			LogLevel: "info",
		},
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return loadDefaults()
}
