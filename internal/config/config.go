// Package config handles configuration loading for the gateway.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax). This allows sensitive values
// like the RON password and the partner base key to be injected at runtime.
//
// # Configuration Sections
//
//   - server: HTTP server settings (port, base path)
//   - ron: downstream reservation host (XML-RPC URL, credentials)
//   - api: partner-facing API key settings (shared base key)
//   - storage: database connection (MongoDB URI, database name)
//   - audit: asynchronous request logging (buffer size)
//
// # Example Configuration
//
//	server:
//	  port: 8080
//	  basePath: /api/booking
//
//	ron:
//	  url: https://ron.example.com/?api
//	  username: ${RON_USERNAME}
//	  password: ${RON_PASSWORD}
//
//	api:
//	  baseKey: ${VRON_BASE_KEY}
//
//	storage:
//	  mongodb:
//	    uri: ${MONGODB_URI}
//	    database: vron
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	RON     RONConfig     `yaml:"ron"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Audit   AuditConfig   `yaml:"audit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"basePath"`
}

// RONConfig holds downstream reservation host settings
type RONConfig struct {
	// URL is the XML-RPC endpoint of the RON host. A session identifier
	// is appended to it when reconnecting mid-conversation.
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// APIConfig holds partner-facing API key settings
type APIConfig struct {
	// BaseKey is the shared prefix every partner API key carries.
	// Stripping it from a presented key yields the host identity.
	BaseKey string `yaml:"baseKey"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	MongoDB MongoDBConfig `yaml:"mongodb"`
}

// MongoDBConfig holds MongoDB connection settings
type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// AuditConfig holds asynchronous request logging settings
type AuditConfig struct {
	// BufferSize is the capacity of the audit event queue. Events are
	// dropped, never blocked on, when the queue is full.
	BufferSize int `yaml:"bufferSize"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = "/api/booking"
	}
	if c.Storage.MongoDB.Database == "" {
		c.Storage.MongoDB.Database = "vron"
	}
	if c.Audit.BufferSize == 0 {
		c.Audit.BufferSize = 256
	}
}

func (c *Config) validate() error {
	if c.RON.URL == "" {
		return fmt.Errorf("ron.url is required")
	}
	if c.RON.Username == "" {
		return fmt.Errorf("ron.username is required")
	}
	if c.RON.Password == "" {
		return fmt.Errorf("ron.password is required")
	}
	if c.API.BaseKey == "" {
		return fmt.Errorf("api.baseKey is required")
	}
	if c.Storage.MongoDB.URI == "" {
		return fmt.Errorf("storage.mongodb.uri is required")
	}
	return nil
}
