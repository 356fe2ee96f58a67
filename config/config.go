// Package config loads the service configuration: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in storage.type.
const (
	StorageMemory     = "memory"
	StorageSQLite     = "sqlite"
	StorageFilesystem = "filesystem"
	StorageBolt       = "bolt"
	StorageRedis      = "redis"
	StorageS3         = "s3"
)

type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ApplicationConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxBodyBytes bounds the size of a paste request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// ContentMaxGraphemes caps paste bodies in grapheme clusters; 0 disables the cap.
	ContentMaxGraphemes int `yaml:"content_max_graphemes"`
	// ShutdownTimeout is how long in-flight requests get on shutdown, e.g. "10s".
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Type string `yaml:"type"`

	// filesystem
	LocalStoragePath string `yaml:"local_storage_path"`
	// sqlite
	DataSourceName string `yaml:"data_source_name"`
	// bolt
	BoltPath string `yaml:"bolt_path"`
	// redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	// s3
	S3BucketName string `yaml:"s3_bucket_name"`
	S3Region     string `yaml:"s3_region"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			MaxBodyBytes:    256 * 1024,
			ShutdownTimeout: "10s",
		},
		Storage: StorageConfig{
			Type:             StorageMemory,
			LocalStoragePath: "data/pastes",
			DataSourceName:   "pastes.db",
			BoltPath:         "pastes.bolt",
			RedisAddr:        "localhost:6379",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an
// error; an empty path skips the file entirely. Environment overrides are
// applied last and the result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	// An empty type, from the file or an exported but empty STORAGE_TYPE,
	// means the default backend.
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = StorageMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"APP_HOST":           &c.Application.Host,
		"STORAGE_TYPE":       &c.Storage.Type,
		"LOCAL_STORAGE_PATH": &c.Storage.LocalStoragePath,
		"DATA_SOURCE_NAME":   &c.Storage.DataSourceName,
		"BOLT_PATH":          &c.Storage.BoltPath,
		"REDIS_ADDR":         &c.Storage.RedisAddr,
		"REDIS_PASSWORD":     &c.Storage.RedisPassword,
		"S3_BUCKET_NAME":     &c.Storage.S3BucketName,
		"S3_REGION":          &c.Storage.S3Region,
		"LOG_LEVEL":          &c.Logging.Level,
		"LOG_FORMAT":         &c.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"APP_PORT":              &c.Application.Port,
		"REDIS_DB":              &c.Storage.RedisDB,
		"CONTENT_MAX_GRAPHEMES": &c.Application.ContentMaxGraphemes,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Application.Port < 0 || c.Application.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Application.Port)
	}
	if c.Application.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.Application.MaxBodyBytes)
	}
	if c.Application.ContentMaxGraphemes < 0 {
		return fmt.Errorf("content_max_graphemes must not be negative, got %d", c.Application.ContentMaxGraphemes)
	}
	switch c.Storage.Type {
	case StorageMemory, StorageSQLite, StorageFilesystem, StorageBolt, StorageRedis:
	case StorageS3:
		if c.Storage.S3BucketName == "" {
			return fmt.Errorf("storage type %q needs s3_bucket_name", c.Storage.Type)
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Address is the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Application.Host, c.Application.Port)
}
