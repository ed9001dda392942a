package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/promenade/internal/logging"
	"github.com/danielpatrickdp/promenade/internal/program"
)

// #region config
// Config holds invocation parameters and service settings.
type Config struct {
	Size        int    `yaml:"size"`
	ProgramPath string `yaml:"program"`
	Rounds      int    `yaml:"rounds"`
	DBPath      string `yaml:"db"`
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the stock configuration: five dancers, the "example"
// program file, one round.
func Default() Config {
	return Config{
		Size:        5,
		ProgramPath: "example",
		Rounds:      1,
		DBPath:      "promenade.db",
		ListenAddr:  "localhost:50061",
		MetricsAddr: ":9464",
		LogLevel:    "info",
	}
}
// #endregion config

// #region load
// Load applies defaults, then the YAML file at path (skipped when path is
// empty), then PROMENADE_* environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROMENADE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROMENADE_SIZE: %w", err)
		}
		cfg.Size = n
	}
	if v := os.Getenv("PROMENADE_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROMENADE_ROUNDS: %w", err)
		}
		cfg.Rounds = n
	}
	if v := os.Getenv("PROMENADE_PROGRAM"); v != "" {
		cfg.ProgramPath = v
	}
	if v := os.Getenv("PROMENADE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PROMENADE_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PROMENADE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("PROMENADE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
// #endregion load

// #region validate
// Validate checks ranges and required fields.
func (c Config) Validate() error {
	var errs []error
	if c.Size < 1 || c.Size > program.MaxSize {
		errs = append(errs, fmt.Errorf("size %d out of range [1, %d]", c.Size, program.MaxSize))
	}
	if c.Rounds < 0 {
		errs = append(errs, fmt.Errorf("rounds must be >= 0, got %d", c.Rounds))
	}
	if c.ProgramPath == "" {
		errs = append(errs, errors.New("program path is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
// #endregion validate
