package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Storage struct {
	Directory string `yaml:"directory"`
}

type Upload struct {
	MaxFileSizeBytes  int64    `yaml:"maxFileSizeBytes"`
	AllowedExtensions []string `yaml:"allowedExtensions"`
}

type Listing struct {
	PageSize int `yaml:"pageSize"`
}

type Cache struct {
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTLSeconds    int    `yaml:"ttlSeconds"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port"`
	Database Database `yaml:"database"`
	Storage  Storage  `yaml:"storage"`
	Upload   Upload   `yaml:"upload"`
	Listing  Listing  `yaml:"listing"`
	Cache    Cache    `yaml:"cache"`
}

// DefaultConfig mirrors the defaults of the original deployment: SQLite
// next to the binary, 5 MiB uploads, ten records per listing page.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port: 8000,
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "images.db",
		},
		Storage: Storage{
			Directory: "images",
		},
		Upload: Upload{
			MaxFileSizeBytes:  5 * 1024 * 1024,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		},
		Listing: Listing{
			PageSize: 10,
		},
		Cache: Cache{
			TTLSeconds: 30,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file. A missing
// file is not an error, the defaults apply.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

func (c *ServiceConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.Database.Type == "" {
		return fmt.Errorf("database type must not be empty")
	}
	if c.Storage.Directory == "" {
		return fmt.Errorf("storage directory must not be empty")
	}
	if c.Upload.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("maxFileSizeBytes must be positive, got %d", c.Upload.MaxFileSizeBytes)
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("allowedExtensions must not be empty")
	}
	for _, ext := range c.Upload.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("allowed extension %q must start with a dot", ext)
		}
	}
	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("pageSize must be positive, got %d", c.Listing.PageSize)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttlSeconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	return nil
}

// CacheTTL returns the count cache TTL as a duration.
func (c *ServiceConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
