// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"sync"
	"time"
)

// HealthStatusType represents the overall health status.
type HealthStatusType string

const (
	HealthStatusHealthy   HealthStatusType = "healthy"
	HealthStatusDegraded  HealthStatusType = "degraded"
	HealthStatusUnhealthy HealthStatusType = "unhealthy"
)

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Healthy   bool                   `json:"healthy"`
	Degraded  bool                   `json:"degraded,omitempty"`
	Name      string                 `json:"name"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	LastCheck time.Time              `json:"last_check"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthCheckable is implemented by components that support health checking.
type HealthCheckable interface {
	HealthCheck(ctx context.Context) ComponentHealth
}

// HealthCheckFunc adapts a ping function to HealthCheckable.
type HealthCheckFunc func(ctx context.Context) error

// HealthCheck calls f and reports its error.
func (f HealthCheckFunc) HealthCheck(ctx context.Context) ComponentHealth {
	if err := f(ctx); err != nil {
		return ComponentHealth{Healthy: false, Error: err.Error()}
	}
	return ComponentHealth{Healthy: true}
}

// OverallHealth is the aggregated health of all registered components.
type OverallHealth struct {
	Healthy    bool                       `json:"healthy"`
	Status     HealthStatusType           `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthChecker runs health checks for registered components.
type HealthChecker struct {
	timeout    time.Duration
	mu         sync.RWMutex
	components map[string]HealthCheckable
}

// NewHealthChecker creates a health checker. Each component check is bounded by timeout.
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		timeout:    timeout,
		components: make(map[string]HealthCheckable),
	}
}

// RegisterComponent registers a component under name.
func (h *HealthChecker) RegisterComponent(name string, component HealthCheckable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = component
}

// CheckAll checks every component concurrently. Any unhealthy component
// makes the whole result unhealthy; a degraded one downgrades a healthy result.
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	h.mu.RLock()
	components := make(map[string]HealthCheckable, len(h.components))
	for name, c := range h.components {
		components[name] = c
	}
	h.mu.RUnlock()

	overall := OverallHealth{
		Healthy:    true,
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth, len(components)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, component := range components {
		wg.Add(1)
		go func(name string, comp HealthCheckable) {
			defer wg.Done()
			result := h.check(ctx, name, comp)

			mu.Lock()
			defer mu.Unlock()
			overall.Components[name] = result
			if !result.Healthy {
				overall.Healthy = false
				overall.Status = HealthStatusUnhealthy
			} else if result.Degraded && overall.Status == HealthStatusHealthy {
				overall.Status = HealthStatusDegraded
			}
		}(name, component)
	}
	wg.Wait()

	return overall
}

func (h *HealthChecker) check(ctx context.Context, name string, comp HealthCheckable) ComponentHealth {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resultCh := make(chan ComponentHealth, 1)
	go func() {
		resultCh <- comp.HealthCheck(checkCtx)
	}()

	var result ComponentHealth
	select {
	case result = <-resultCh:
	case <-checkCtx.Done():
		result = ComponentHealth{Healthy: false, Error: "health check timeout"}
	}
	result.Name = name
	result.LastCheck = time.Now()
	return result
}
