// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package config loads and validates service configuration from three
// layered sources with koanf: struct defaults, an optional YAML file,
// then environment variables.
package config

import (
	"fmt"
	"time"
)

// Storage backend names accepted by Config.Storage.Backend.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	API       APIConfig       `koanf:"api"`
	Websocket WebsocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is "file" for JSON files or "badger" for BadgerDB.
	Backend string `koanf:"backend"`

	// DataDir holds the JSON files for the file backend.
	DataDir string `koanf:"data_dir"`

	// BadgerPath is the BadgerDB directory for the badger backend.
	BadgerPath string `koanf:"badger_path"`
}

// APIConfig holds pagination limits for listing endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// WebsocketConfig paces the product feed.
type WebsocketConfig struct {
	// PushesPerSecond caps updateProducts broadcasts.
	PushesPerSecond float64 `koanf:"pushes_per_second"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir required for the %s backend", BackendFile)
		}
	case BackendBadger:
		if c.Storage.BadgerPath == "" {
			return fmt.Errorf("storage.badger_path required for the %s backend", BackendBadger)
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendFile, BackendBadger, c.Storage.Backend)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size %d below api.default_page_size %d", c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	if c.Websocket.PushesPerSecond <= 0 {
		return fmt.Errorf("websocket.pushes_per_second must be positive, got %g", c.Websocket.PushesPerSecond)
	}

	return nil
}
