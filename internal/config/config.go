// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration is loaded using Koanf v2 with layered sources:
//  1. Built-in defaults (lowest priority)
//  2. Config file (config.yaml, optional)
//  3. Environment variables (highest priority)
type Config struct {
	Logging     LoggingConfig     `koanf:"logging"`
	Database    DatabaseConfig    `koanf:"database"`
	Queue       QueueConfig       `koanf:"queue"`
	SwipeCache  SwipeCacheConfig  `koanf:"swipe_cache"`
	TMDB        TMDBConfig        `koanf:"tmdb"`
	Recommend   recommend.Config  `koanf:"recommend"`
	CatalogSync CatalogSyncConfig `koanf:"catalog_sync"`
	Server      ServerConfig      `koanf:"server"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings for the entity store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB worker thread count; 0 uses runtime.NumCPU.
	Threads int `koanf:"threads"`
	// PoolCacheTTL is how long the shared candidate pool is cached.
	// Zero disables the cache.
	PoolCacheTTL time.Duration `koanf:"pool_cache_ttl"`
	// CheckpointInterval is how often the WAL is flushed into the database
	// file while serving. Zero disables periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// QueueConfig configures the background job transport and router.
type QueueConfig struct {
	// Transport selects the pub/sub backend: "gochannel" or "nats".
	Transport string `koanf:"transport"`

	// Workers is the number of concurrent handlers per topic.
	Workers int `koanf:"workers"`

	// RouterRetryCount is how many times a failed job is retried
	// before it is sent to the poison queue.
	RouterRetryCount int `koanf:"router_retry_count"`

	// RouterRetryInitialInterval is the first retry backoff.
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`

	// RouterThrottlePerSecond caps message throughput. 0 disables throttling.
	RouterThrottlePerSecond int `koanf:"router_throttle_per_second"`

	// RouterPoisonQueueEnabled routes exhausted jobs to RouterPoisonQueueTopic.
	RouterPoisonQueueEnabled bool   `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic   string `koanf:"router_poison_queue_topic"`

	// RouterCloseTimeout bounds graceful router shutdown.
	RouterCloseTimeout time.Duration `koanf:"router_close_timeout"`

	NATS NATSConfig `koanf:"nats"`
}

// NATSConfig holds NATS JetStream settings used when Queue.Transport is "nats".
type NATSConfig struct {
	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// StreamRetentionDays is how long to keep unacknowledged jobs.
	StreamRetentionDays int `koanf:"stream_retention_days"`

	// DurableName is the JetStream durable consumer prefix.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the queue group shared by all marquee workers.
	QueueGroup string `koanf:"queue_group"`

	// AckWait is how long JetStream waits for an ack before redelivery.
	AckWait time.Duration `koanf:"ack_wait"`
}

// SwipeCacheConfig selects and configures the swipe batch store.
type SwipeCacheConfig struct {
	// Backend is "badger" (embedded) or "redis".
	Backend string `koanf:"backend"`

	// KeyPrefix namespaces batch keys: <prefix><user_id>.
	KeyPrefix string `koanf:"key_prefix"`

	Badger BadgerConfig `koanf:"badger"`
	Redis  RedisConfig  `koanf:"redis"`
}

// BadgerConfig holds settings for the embedded swipe batch store.
type BadgerConfig struct {
	Dir string `koanf:"dir"`
	// InMemory keeps the store in RAM only; batches are lost on restart.
	InMemory   bool `koanf:"in_memory"`
	SyncWrites bool `koanf:"sync_writes"`
}

// RedisConfig holds settings for the shared swipe batch store.
type RedisConfig struct {
	// Addrs is one address for a single node, several for a cluster.
	Addrs    []string `koanf:"addrs"`
	Password string   `koanf:"password"`
	DB       int      `koanf:"db"`
	PoolSize int      `koanf:"pool_size"`
}

// TMDBConfig holds The Movie Database API settings used by the catalog importer.
type TMDBConfig struct {
	// APIKey is either a v3 key or a v4 read access token (starts with "eyJ").
	APIKey   string        `koanf:"api_key"`
	BaseURL  string        `koanf:"base_url"`
	Language string        `koanf:"language"`
	Timeout  time.Duration `koanf:"timeout"`

	// RequestsPerSecond limits outgoing TMDB calls. 0 means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// MaxRetries is how many times a 429 response is retried.
	MaxRetries int `koanf:"max_retries"`
}

// CatalogSyncConfig schedules periodic catalog imports.
type CatalogSyncConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`
	Pages     int           `koanf:"pages"`
}

// ServerConfig holds the operations HTTP server settings.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, an optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// UsesNATS reports whether jobs travel over NATS JetStream.
func (c *Config) UsesNATS() bool {
	return c.Queue.Transport == TransportNATS
}

// Queue transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Swipe cache backends.
const (
	SwipeBackendBadger = "badger"
	SwipeBackendRedis  = "redis"
)
