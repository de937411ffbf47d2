// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds a cache backend from configuration.
func New(backend, redisURL, redisPrefix string, defaultTTL time.Duration) (Cache, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryCache(defaultTTL), nil
	case BackendRedis:
		return NewRedisCache(redisURL, redisPrefix, defaultTTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
