// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateLogging,
		c.validateDatabase,
		c.validateQueue,
		c.validateSwipeCache,
		c.validateTMDB,
		c.Recommend.Validate,
		c.validateCatalogSync,
		c.validateServer,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if c.Database.PoolCacheTTL < 0 {
		return fmt.Errorf("CANDIDATE_POOL_CACHE_TTL must not be negative")
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must not be negative")
	}
	return nil
}

// NATS limits
const (
	natsMinMemory    = 64 * 1024 * 1024  // 64MB
	natsMinStore     = 100 * 1024 * 1024 // 100MB
	natsMaxRetention = 365
	natsMinRetention = 1
	queueMaxWorkers  = 64
)

func (c *Config) validateQueue() error {
	switch c.Queue.Transport {
	case TransportGoChannel:
	case TransportNATS:
		if err := c.validateNATS(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("QUEUE_TRANSPORT must be one of: gochannel, nats")
	}

	if c.Queue.Workers < 1 || c.Queue.Workers > queueMaxWorkers {
		return fmt.Errorf("QUEUE_WORKERS must be between 1 and %d", queueMaxWorkers)
	}
	if c.Queue.RouterRetryCount < 0 {
		return fmt.Errorf("ROUTER_RETRY_COUNT must not be negative")
	}
	if c.Queue.RouterRetryCount > 0 && c.Queue.RouterRetryInitialInterval <= 0 {
		return fmt.Errorf("ROUTER_RETRY_INITIAL_INTERVAL must be positive when retries are enabled")
	}
	if c.Queue.RouterThrottlePerSecond < 0 {
		return fmt.Errorf("ROUTER_THROTTLE_PER_SECOND must not be negative")
	}
	if c.Queue.RouterPoisonQueueEnabled && c.Queue.RouterPoisonQueueTopic == "" {
		return fmt.Errorf("ROUTER_POISON_QUEUE_TOPIC is required when the poison queue is enabled")
	}
	return nil
}

func (c *Config) validateNATS() error {
	n := c.Queue.NATS
	if err := validateNATSURL(n.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if n.EmbeddedServer {
		if n.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
		}
		if n.MaxMemory < natsMinMemory {
			return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
		}
		if n.MaxStore < natsMinStore {
			return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
		}
	}
	if n.StreamRetentionDays < natsMinRetention || n.StreamRetentionDays > natsMaxRetention {
		return fmt.Errorf("NATS_RETENTION_DAYS must be between 1 and 365")
	}
	if n.DurableName == "" {
		return fmt.Errorf("NATS_DURABLE_NAME is required")
	}
	if n.AckWait < time.Second {
		return fmt.Errorf("NATS_ACK_WAIT must be at least 1s")
	}
	return nil
}

func (c *Config) validateSwipeCache() error {
	switch c.SwipeCache.Backend {
	case SwipeBackendBadger:
		if !c.SwipeCache.Badger.InMemory && c.SwipeCache.Badger.Dir == "" {
			return fmt.Errorf("BADGER_DIR is required unless BADGER_IN_MEMORY=true")
		}
	case SwipeBackendRedis:
		if len(c.SwipeCache.Redis.Addrs) == 0 {
			return fmt.Errorf("REDIS_ADDRS is required when SWIPE_CACHE_BACKEND=redis")
		}
		if c.SwipeCache.Redis.DB < 0 || c.SwipeCache.Redis.DB > 15 {
			return fmt.Errorf("REDIS_DB must be between 0 and 15")
		}
	default:
		return fmt.Errorf("SWIPE_CACHE_BACKEND must be one of: badger, redis")
	}
	return nil
}

// validateTMDB checks the TMDB client settings. The API key is only
// required by the catalog importer and is checked when the client is built.
func (c *Config) validateTMDB() error {
	if c.TMDB.BaseURL != "" {
		if err := validateHTTPURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
			return err
		}
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must not be negative")
	}
	if c.TMDB.MaxRetries < 0 || c.TMDB.MaxRetries > 10 {
		return fmt.Errorf("TMDB_MAX_RETRIES must be between 0 and 10")
	}
	return nil
}

func (c *Config) validateCatalogSync() error {
	if !c.CatalogSync.Enabled {
		return nil
	}
	if c.CatalogSync.Interval < time.Minute {
		return fmt.Errorf("CATALOG_SYNC_INTERVAL must be at least 1m")
	}
	if c.CatalogSync.Pages < 1 || c.CatalogSync.Pages > 50 {
		return fmt.Errorf("CATALOG_SYNC_PAGES must be between 1 and 50")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}
