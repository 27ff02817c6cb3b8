// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/tomtom215/marquee/internal/config"
)

// ServerConfig holds settings for the embedded NATS server.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// ServerConfigFromNATS derives the embedded server settings from the NATS
// client configuration. The server listens on the host and port of cfg.URL.
func ServerConfigFromNATS(cfg *config.NATSConfig) (ServerConfig, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%w: NATS_URL: %v", ErrInvalidConfig, err)
	}

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		host, portStr = u.Hostname(), "4222"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%w: NATS_URL port %q", ErrInvalidConfig, portStr)
	}

	return ServerConfig{
		Host:              host,
		Port:              port,
		StoreDir:          cfg.StoreDir,
		JetStreamMaxMem:   cfg.MaxMemory,
		JetStreamMaxStore: cfg.MaxStore,
	}, nil
}

// EmbeddedServer wraps an in-process NATS JetStream server.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server. It returns
// an error if the server is not accepting connections within 30 seconds.
func NewEmbeddedServer(cfg *ServerConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName:         "marquee",
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMem,
		JetStreamMaxStore:  cfg.JetStreamMaxStore,
		// Signals are handled by the supervisor tree.
		NoSigs:     true,
		NoLog:      true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server and waits for it to finish unless ctx is done first.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// IsRunning returns server health status.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// HealthCheck implements HealthCheckable.
func (s *EmbeddedServer) HealthCheck(_ context.Context) ComponentHealth {
	if !s.server.Running() {
		return ComponentHealth{Healthy: false, Error: "embedded NATS server is not running"}
	}
	if !s.server.JetStreamEnabled() {
		return ComponentHealth{Healthy: false, Error: "JetStream is disabled"}
	}
	return ComponentHealth{Healthy: true, Message: "embedded NATS server is running"}
}
