package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"fsmdraw/diagram"
)

type Config struct {
	SaveDirectory string         `yaml:"save_directory"`
	WriteDelay    time.Duration  `yaml:"write_delay"`
	LogFile       string         `yaml:"log_file"`
	LogLevel      string         `yaml:"log_level"`
	Confirmations bool           `yaml:"confirmations"`
	Watch         bool           `yaml:"watch"`
	Params        diagram.Params `yaml:"params"`
}

func defaultConfig() *Config {
	return &Config{
		WriteDelay:    defaultWriteDelay,
		LogLevel:      "info",
		Confirmations: true,
		Watch:         true,
	}
}

// loadConfig reads ~/.fsmdrawrc. A missing file yields the defaults.
func loadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFrom(filepath.Join(homeDir, ".fsmdrawrc"), homeDir)
}

func loadConfigFrom(path, homeDir string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return defaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}

	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.LogFile = expandPath(config.LogFile, homeDir)
	if config.WriteDelay < 0 {
		config.WriteDelay = 0
	}
	if err := config.Params.Validate(); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, nil
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetSavePath places a relative filename in the save directory, creating
// the directory if needed.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}

// loadParams reads widget params from a YAML or JSON file. JSON is valid
// YAML, so one decoder serves both.
func loadParams(path string) (diagram.Params, error) {
	var p diagram.Params
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params %s: %w", path, err)
	}
	return p, nil
}

// newLogger logs to the configured file; the terminal belongs to the UI, so
// without a log file nothing is logged.
func newLogger(c *Config) (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{c.LogFile}
	config.ErrorOutputPaths = []string{c.LogFile}
	config.Sampling = nil

	return config.Build(zap.AddCaller())
}
