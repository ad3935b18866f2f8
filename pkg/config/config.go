// Package config provides configuration types and file loading for the
// chirpd services.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// Config is the top-level configuration for all chirpd services.
type Config struct {
	REST    RESTConfig    `json:"rest" yaml:"rest"`
	Chat    ChatConfig    `json:"chat" yaml:"chat"`
	Facade  FacadeConfig  `json:"facade" yaml:"facade"`
	Fuseki  FusekiConfig  `json:"fuseki" yaml:"fuseki"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RESTConfig configures the CRUD API server.
type RESTConfig struct {
	// Port is the listen port for the CRUD API
	Port int `json:"port" yaml:"port"`
}

// ChatConfig configures the chat relay.
type ChatConfig struct {
	// Port is the listen port for the relay
	Port int `json:"port" yaml:"port"`
	// Path is the WebSocket endpoint path
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Store selects the persistence mechanism, sparql or jsonld
	Store string `json:"store,omitempty" yaml:"store,omitempty"`
}

// FacadeConfig configures the SPARQL façade.
type FacadeConfig struct {
	// Port is the listen port for the façade
	Port int `json:"port" yaml:"port"`
	// EntityBase is the IRI prefix for minted entities. Defaults to the
	// Fuseki base URL.
	EntityBase string `json:"entityBase,omitempty" yaml:"entityBase,omitempty"`
}

// FusekiConfig configures the triple store connection.
type FusekiConfig struct {
	// BaseURL is the Fuseki server address
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	// Dataset is the dataset name
	Dataset string `json:"dataset" yaml:"dataset"`
	// Timeout bounds every request to the store
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is text or json
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		REST:   RESTConfig{Port: 3000},
		Chat:   ChatConfig{Port: 3001, Path: "/ws", Store: "sparql"},
		Facade: FacadeConfig{Port: 3002},
		Fuseki: FusekiConfig{
			BaseURL: "http://localhost:3030",
			Dataset: "ds",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a Config from a JSON or YAML file. The format is detected
// from the file extension (.yaml, .yml for YAML, otherwise JSON). Keys
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return cfg, nil
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return cfg, nil
}
