package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	API     APISettings     `toml:"api"`
	Catalog CatalogSettings `toml:"catalog"`
	Data    DataSettings    `toml:"data"`
	Cache   CacheSettings   `toml:"cache"`
	UI      UISettings      `toml:"ui"`
	Log     LogSettings     `toml:"log"`
}

// APISettings points at the course API
type APISettings struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	// Validate checks each selection change against the schedule endpoint
	Validate bool `toml:"validate"`
}

// CatalogSettings enables the offline catalog
type CatalogSettings struct {
	// CSVPath, when set, replaces the API as course source
	CSVPath string `toml:"csv_path"`
}

// DataSettings locates local state
type DataSettings struct {
	Dir string `toml:"dir"`
}

// CacheSettings configures the course response cache
type CacheSettings struct {
	Backend   string   `toml:"backend"` // memory, redis or none
	TTL       Duration `toml:"ttl"`
	Size      int      `toml:"size"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	RedisPass string   `toml:"redis_password"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	DefaultDepartment string `toml:"default_department"`
	PermalinkBase     string `toml:"permalink_base"`
	ICalURL           string `toml:"ical_url"`
	AltScreen         bool   `toml:"alt_screen"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or console
	File   string `toml:"file"`
}

// Duration is a time.Duration written as "15s" in TOML
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// DefaultDir returns the yacs directory under the user's config dir
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "yacs")
}

// NewConfigService creates a config service for path, or the default location when empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.toml")
	}
	return &configService{filePath: path}
}

// Path returns the file Load and Save use
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Missing keys keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("invalid cache backend %q: want memory, redis or none", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("cache backend redis needs redis_addr")
	}
	if c.API.BaseURL == "" && c.Catalog.CSVPath == "" {
		return errors.New("either api.base_url or catalog.csv_path must be set")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// DBPath is the selection database inside the data dir
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "selections.db")
}

// LogPath is the log file, relative names resolve inside the data dir
func (c *Config) LogPath() string {
	if c.Log.File == "" || filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Data.Dir, c.Log.File)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := DefaultDir()
	if d, err := os.UserCacheDir(); err == nil {
		dataDir = filepath.Join(d, "yacs")
	}

	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:  "https://yacs.cs.rpi.edu/api/v5",
			Timeout:  Duration{15 * time.Second},
			Validate: true,
		},
		Data: DataSettings{Dir: dataDir},
		Cache: CacheSettings{
			Backend: "memory",
			TTL:     Duration{10 * time.Minute},
			Size:    256,
		},
		UI: UISettings{
			DefaultDepartment: "CSCI",
			PermalinkBase:     "yacs://selection",
			ICalURL:           "https://yacs.cs.rpi.edu/api/v5/schedules.ics",
			AltScreen:         true,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
			File:   "yacs.log",
		},
	}
}
