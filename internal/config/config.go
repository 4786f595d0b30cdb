package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/notexe/simfixtures/internal/fixtures"
	"github.com/notexe/simfixtures/internal/logging"
)

const envPrefix = "SIMFIXTURES_"

// Only these sections nest; every other key keeps its underscores
// (SIMFIXTURES_FIXTURES_FILE -> fixtures_file).
var envSections = []string{"log_", "simulator_"}

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Simulator SimulatorConfig `koanf:"simulator"`

	// Raw fixture entries; each is a path string or a {filePath, destinationDir}
	// record. Use Fixtures() to get the normalized list.
	RawFixtures  []any  `koanf:"fixtures"`
	FixturesFile string `koanf:"fixtures_file"` // Optional JSON array in the same format

	fileFixtures []fixtures.Fixture
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

type SimulatorConfig struct {
	HomeDir string `koanf:"home_dir"` // Overrides the home directory holding Library/Developer/CoreSimulator
	Device  string `koanf:"device"`   // Default device UDID or name (empty = booted device)
}

// Load reads defaults, then the YAML file at configPath if it exists, then
// SIMFIXTURES_* environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// SIMFIXTURES_LOG_LEVEL -> log.level, SIMFIXTURES_SIMULATOR_HOME_DIR -> simulator.home_dir
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Simulator.HomeDir = expandPath(cfg.Simulator.HomeDir)

	if err := cfg.LoadFixturesFile(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range envSections {
		if strings.HasPrefix(key, section) {
			return strings.Replace(key, "_", ".", 1)
		}
	}
	return key
}

func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format: %s (supported: %s, %s)",
			c.Log.Format, logging.FormatText, logging.FormatJSON)
	}

	if _, err := c.Fixtures(); err != nil {
		return err
	}

	return nil
}

// Fixtures returns the inline fixtures followed by those from the fixtures
// file, with "~/" expanded in source paths.
func (c *Config) Fixtures() ([]fixtures.Fixture, error) {
	inline, err := fixtures.ParseSpecs(c.RawFixtures)
	if err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}

	all := append(inline, c.fileFixtures...)
	for i := range all {
		all[i].SourcePath = expandPath(all[i].SourcePath)
	}
	return all, nil
}

// LoadFixturesFile reads the JSON fixtures file, if configured.
//
// Example:
//
//	[
//	  "./e2e/fixtures/seed.json",
//	  {"filePath": "./e2e/fixtures/app.sqlite", "destinationDir": "db"}
//	]
func (c *Config) LoadFixturesFile() error {
	if c.FixturesFile == "" {
		return nil
	}
	path := expandPath(c.FixturesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var specs []fixtures.Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("failed to parse fixtures file %s: %w", path, err)
	}

	list, err := fixtures.Normalize(specs)
	if err != nil {
		return fmt.Errorf("invalid fixtures file %s: %w", path, err)
	}
	c.fileFixtures = list
	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
