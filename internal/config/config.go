package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Search   Search   `yaml:"search"`
	Game     Game     `yaml:"game"`
	Fallback Fallback `yaml:"fallback"`
	Storage  Storage  `yaml:"storage"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Search struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ResultCount    int    `yaml:"result_count"`
	Generate       bool   `yaml:"generate"`
	MinQueryLength int    `yaml:"min_query_length"`
	DebounceMillis int    `yaml:"debounce_ms"`
}

type Game struct {
	Points Points `yaml:"points"`
}

type Points struct {
	Search             int `yaml:"search"`
	ReadArticle        int `yaml:"read_article"`
	CompleteFlashcards int `yaml:"complete_flashcards"`
}

type Fallback struct {
	Feeds []Feed `yaml:"feeds"`
}

type Feed struct {
	URL   string `yaml:"url"`
	Name  string `yaml:"name"`
	Topic string `yaml:"topic"`
}

type Storage struct {
	Backend string `yaml:"backend"` // sqlite, redis or memory
	DataDir string `yaml:"data_dir"`
	Redis   Redis  `yaml:"redis"`
}

type Redis struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
	Key  string `yaml:"key"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for academisearch.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "academisearch")
}

// DataDir returns the XDG data directory for academisearch.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "academisearch")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/academisearch/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'academisearch init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Search: Search{
			Endpoint:       "http://localhost:3000/search",
			TimeoutSeconds: 8,
			ResultCount:    6,
			Generate:       true,
			MinQueryLength: 3,
			DebounceMillis: 500,
		},
		Game: Game{
			Points: Points{
				Search:             5,
				ReadArticle:        10,
				CompleteFlashcards: 15,
			},
		},
		Storage: Storage{
			Backend: "sqlite",
			Redis: Redis{
				Addr: "localhost:6379",
				Key:  "academisearch:progress",
			},
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	return DataDir()
}

// SearchTimeout returns the remote search timeout as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// Debounce returns the search-as-you-type quiet period as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMillis) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
