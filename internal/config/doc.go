// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config loads and validates Marquee configuration.

Configuration is layered with Koanf v2:
 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/marquee/config.yaml, /etc/marquee/config.yml
 3. Environment variables

Environment variables use flat names that are mapped onto koanf paths by an
explicit table; variables not in the table are ignored.

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Database (DuckDB entity store):
  - DUCKDB_PATH: database file, or :memory: (default: /data/marquee.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: worker threads, 0 = NumCPU
  - CANDIDATE_POOL_CACHE_TTL: shared candidate pool cache TTL, 0 disables (default: 1m)

Job queue:
  - QUEUE_TRANSPORT: gochannel or nats (default: gochannel)
  - QUEUE_WORKERS: concurrent handlers per job kind (default: 4)
  - ROUTER_RETRY_COUNT, ROUTER_RETRY_INITIAL_INTERVAL, ROUTER_THROTTLE_PER_SECOND
  - ROUTER_POISON_QUEUE_ENABLED, ROUTER_POISON_QUEUE_TOPIC, ROUTER_CLOSE_TIMEOUT
  - NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR, NATS_MAX_MEMORY, NATS_MAX_STORE
  - NATS_RETENTION_DAYS, NATS_DURABLE_NAME, NATS_QUEUE_GROUP, NATS_ACK_WAIT

Swipe batch cache:
  - SWIPE_CACHE_BACKEND: badger or redis (default: badger)
  - SWIPE_CACHE_KEY_PREFIX (default: swipe_batch:)
  - BADGER_DIR, BADGER_IN_MEMORY, BADGER_SYNC_WRITES
  - REDIS_ADDRS (comma-separated), REDIS_PASSWORD, REDIS_DB, REDIS_POOL_SIZE

TMDB catalog importer:
  - TMDB_API_KEY: v3 key or v4 read token
  - TMDB_BASE_URL, TMDB_LANGUAGE, TMDB_TIMEOUT
  - TMDB_REQUESTS_PER_SECOND, TMDB_BURST, TMDB_MAX_RETRIES
  - CATALOG_SYNC_ENABLED, CATALOG_SYNC_INTERVAL, CATALOG_SYNC_ON_STARTUP, CATALOG_SYNC_PAGES

Recommendation pipeline:
  - RECOMMEND_CANDIDATE_POOL, RECOMMEND_CANDIDATE_LIMIT
  - RECOMMEND_BATCH_SIZE, RECOMMEND_LIST_LIMIT
  - Interaction weights are set in the YAML file under recommend.weights.

Operations server:
  - HTTP_ENABLED, HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
