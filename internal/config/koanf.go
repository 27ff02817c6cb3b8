// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/marquee/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:               "/data/marquee.duckdb",
			MaxMemory:          "1GB",
			Threads:            0,
			PoolCacheTTL:       time.Minute,
			CheckpointInterval: 5 * time.Minute,
		},
		Queue: QueueConfig{
			Transport:                  TransportGoChannel,
			Workers:                    4,
			RouterRetryCount:           3,
			RouterRetryInitialInterval: time.Second,
			RouterThrottlePerSecond:    0,
			RouterPoisonQueueEnabled:   true,
			RouterPoisonQueueTopic:     "jobs.poison",
			RouterCloseTimeout:         30 * time.Second,
			NATS: NATSConfig{
				URL:                 "nats://127.0.0.1:4222",
				EmbeddedServer:      true,
				StoreDir:            "/data/nats/jetstream",
				MaxMemory:           1 << 30,  // 1GB
				MaxStore:            10 << 30, // 10GB
				StreamRetentionDays: 7,
				DurableName:         "marquee-worker",
				QueueGroup:          "marquee-workers",
				AckWait:             2 * time.Minute,
			},
		},
		SwipeCache: SwipeCacheConfig{
			Backend:   SwipeBackendBadger,
			KeyPrefix: "swipe_batch:",
			Badger: BadgerConfig{
				Dir:      "/data/swipecache",
				InMemory: false,
			},
			Redis: RedisConfig{
				Addrs:    []string{"127.0.0.1:6379"},
				DB:       0,
				PoolSize: 10,
			},
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Language:          "en-US",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 40,
			Burst:             10,
			MaxRetries:        3,
		},
		Recommend: recommend.DefaultConfig(),
		CatalogSync: CatalogSyncConfig{
			Enabled:   false,
			Interval:  24 * time.Hour,
			OnStartup: false,
			Pages:     3,
		},
		Server: ServerConfig{
			Enabled:         true,
			Host:            "0.0.0.0",
			Port:            9464,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
// Priority (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml or path from CONFIG_PATH)
//  3. Built-in defaults
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path
	// NATS_URL -> queue.nats.url
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default locations.
// Returns empty string if no config file is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices
var sliceConfigPaths = []string{
	"swipe_cache.redis.addrs",
}

// processSliceFields converts comma-separated environment values into slices.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Database
	"duckdb_path":                "database.path",
	"duckdb_max_memory":          "database.max_memory",
	"duckdb_threads":             "database.threads",
	"candidate_pool_cache_ttl":   "database.pool_cache_ttl",
	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	// Queue / router
	"queue_transport":               "queue.transport",
	"queue_workers":                 "queue.workers",
	"router_retry_count":            "queue.router_retry_count",
	"router_retry_initial_interval": "queue.router_retry_initial_interval",
	"router_throttle_per_second":    "queue.router_throttle_per_second",
	"router_poison_queue_enabled":   "queue.router_poison_queue_enabled",
	"router_poison_queue_topic":     "queue.router_poison_queue_topic",
	"router_close_timeout":          "queue.router_close_timeout",

	// NATS
	"nats_url":            "queue.nats.url",
	"nats_embedded":       "queue.nats.embedded_server",
	"nats_store_dir":      "queue.nats.store_dir",
	"nats_max_memory":     "queue.nats.max_memory",
	"nats_max_store":      "queue.nats.max_store",
	"nats_retention_days": "queue.nats.stream_retention_days",
	"nats_durable_name":   "queue.nats.durable_name",
	"nats_queue_group":    "queue.nats.queue_group",
	"nats_ack_wait":       "queue.nats.ack_wait",

	// Swipe cache
	"swipe_cache_backend":    "swipe_cache.backend",
	"swipe_cache_key_prefix": "swipe_cache.key_prefix",
	"badger_dir":             "swipe_cache.badger.dir",
	"badger_in_memory":       "swipe_cache.badger.in_memory",
	"badger_sync_writes":     "swipe_cache.badger.sync_writes",
	"redis_addrs":            "swipe_cache.redis.addrs",
	"redis_password":         "swipe_cache.redis.password",
	"redis_db":               "swipe_cache.redis.db",
	"redis_pool_size":        "swipe_cache.redis.pool_size",

	// TMDB
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_language":            "tmdb.language",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",
	"tmdb_max_retries":         "tmdb.max_retries",

	// Recommendation pipeline
	"recommend_candidate_pool":  "recommend.candidate_pool",
	"recommend_candidate_limit": "recommend.candidate_limit",
	"recommend_batch_size":      "recommend.batch_size",
	"recommend_list_limit":      "recommend.list_limit",

	// Catalog sync schedule
	"catalog_sync_enabled":    "catalog_sync.enabled",
	"catalog_sync_interval":   "catalog_sync.interval",
	"catalog_sync_on_startup": "catalog_sync.on_startup",
	"catalog_sync_pages":      "catalog_sync.pages",

	// Ops server
	"http_enabled":          "server.enabled",
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so unrelated environment does not leak into config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
