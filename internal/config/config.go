package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for pkgsite.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	LogLevel string         `toml:"log_level"` // debug, info, warn or error
	Database DatabaseConfig `toml:"database"`
	Import   ImportConfig   `toml:"import"`
	Source   SourceConfig   `toml:"source"`
	Server   ServerConfig   `toml:"server"`
}

// DatabaseConfig locates the catalog store. The DATABASE_URL environment
// variable takes precedence over URL.
type DatabaseConfig struct {
	URL string `toml:"url"` // sqlite:///path, file:path, a plain path, or ":memory:"
}

// ImportConfig holds importer defaults.
type ImportConfig struct {
	BatchSize int `toml:"batch_size"` // rows per insert; 0 selects the built-in default
}

// SourceConfig configures where descriptor files can be read from.
// Local paths always work; the sub-sections tune the remote schemes.
type SourceConfig struct {
	FSRoot   string           `toml:"fs_root,omitempty"` // relative paths resolve against this directory
	MaxBytes int64            `toml:"max_bytes"`         // decompressed size limit; 0 disables it
	HTTP     HTTPSourceConfig `toml:"http"`
	S3       S3SourceConfig   `toml:"s3"`
}

// DefaultSourceMaxBytes bounds a decompressed descriptor stream. The full
// ports catalog decompresses to a few hundred megabytes.
const DefaultSourceMaxBytes = 1 << 30

// HTTPSourceConfig configures http:// and https:// locations.
type HTTPSourceConfig struct {
	RetryMax       int    `toml:"retry_max"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent,omitempty"`
}

// S3SourceConfig configures s3://bucket/key locations.
type S3SourceConfig struct {
	Region       string `toml:"region,omitempty"`
	Endpoint     string `toml:"endpoint,omitempty"` // for MinIO and other S3-compatible stores
	UsePathStyle bool   `toml:"use_path_style"`

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// ServerConfig configures the JSON query server.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Database: DatabaseConfig{
			URL: "sqlite://" + filepath.Join(baseDir, "pkgsite.db"),
		},
		Import: ImportConfig{BatchSize: 1000},
		Source: SourceConfig{
			MaxBytes: DefaultSourceMaxBytes,
			HTTP:     HTTPSourceConfig{RetryMax: 3, TimeoutSeconds: 60},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
