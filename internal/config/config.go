// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AI provider names accepted by Load.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PAGEFORGE_DB_PATH" envDefault:"./data/pageforge.db"`
	ServerHost string `env:"PAGEFORGE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PAGEFORGE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PAGEFORGE_ENV" envDefault:"development"`
	LogLevel   string `env:"PAGEFORGE_LOG_LEVEL" envDefault:"info"`

	// AI provider configuration
	AIProvider  string `env:"PAGEFORGE_AI_PROVIDER" envDefault:"openai"`  // openai or ollama
	AIModel     string `env:"PAGEFORGE_AI_MODEL" envDefault:"gpt-4o"`     // model name for the provider
	AIAPIKey    string `env:"PAGEFORGE_AI_API_KEY"`                       // required for openai
	AIBaseURL   string `env:"PAGEFORGE_AI_BASE_URL"`                      // optional endpoint override
	AITimeout   int    `env:"PAGEFORGE_AI_TIMEOUT" envDefault:"60"`       // generation timeout in seconds
	OllamaURL   string `env:"PAGEFORGE_OLLAMA_URL"`                       // ollama base URL

	// Cache configuration
	CacheBackend string `env:"PAGEFORGE_CACHE_BACKEND" envDefault:"memory"` // memory or redis
	RedisURL     string `env:"PAGEFORGE_REDIS_URL"`
	CachePrefix  string `env:"PAGEFORGE_CACHE_PREFIX" envDefault:"pageforge:"`
	CacheTTL     int    `env:"PAGEFORGE_CACHE_TTL" envDefault:"300"` // seconds

	// Rate limiting
	RateLimitRPS   float64 `env:"PAGEFORGE_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"PAGEFORGE_RATE_LIMIT_BURST" envDefault:"20"`

	// Draft retention: unpublished pages untouched for this many days are
	// purged nightly. 0 disables the purge job.
	DraftRetentionDays int `env:"PAGEFORGE_DRAFT_RETENTION_DAYS" envDefault:"0"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.AIProvider {
	case ProviderOpenAI:
		if cfg.AIAPIKey == "" {
			return nil, fmt.Errorf("PAGEFORGE_AI_API_KEY is required when PAGEFORGE_AI_PROVIDER is %q", ProviderOpenAI)
		}
	case ProviderOllama:
		// Local provider, no key needed.
	default:
		return nil, fmt.Errorf("unknown PAGEFORGE_AI_PROVIDER %q (expected %q or %q)",
			cfg.AIProvider, ProviderOpenAI, ProviderOllama)
	}

	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("PAGEFORGE_REDIS_URL is required when PAGEFORGE_CACHE_BACKEND is redis")
	}

	if cfg.AITimeout <= 0 {
		return nil, fmt.Errorf("PAGEFORGE_AI_TIMEOUT must be positive, got %d", cfg.AITimeout)
	}

	return cfg, nil
}
