// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type staticHealth ComponentHealth

func (s staticHealth) HealthCheck(context.Context) ComponentHealth {
	return ComponentHealth(s)
}

type slowHealth struct{}

func (slowHealth) HealthCheck(ctx context.Context) ComponentHealth {
	<-ctx.Done()
	time.Sleep(10 * time.Millisecond)
	return ComponentHealth{Healthy: true}
}

func TestHealthChecker_CheckAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		components map[string]HealthCheckable
		want       HealthStatusType
	}{
		{
			name:       "all healthy",
			components: map[string]HealthCheckable{"a": staticHealth{Healthy: true}, "b": staticHealth{Healthy: true}},
			want:       HealthStatusHealthy,
		},
		{
			name:       "one degraded",
			components: map[string]HealthCheckable{"a": staticHealth{Healthy: true}, "b": staticHealth{Healthy: true, Degraded: true}},
			want:       HealthStatusDegraded,
		},
		{
			name:       "one unhealthy",
			components: map[string]HealthCheckable{"a": staticHealth{Healthy: true, Degraded: true}, "b": staticHealth{Healthy: false}},
			want:       HealthStatusUnhealthy,
		},
		{
			name:       "ping error",
			components: map[string]HealthCheckable{"db": HealthCheckFunc(func(context.Context) error { return errors.New("closed") })},
			want:       HealthStatusUnhealthy,
		},
		{
			name:       "empty",
			components: nil,
			want:       HealthStatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthChecker(time.Second)
			for name, c := range tt.components {
				h.RegisterComponent(name, c)
			}

			got := h.CheckAll(context.Background())
			if got.Status != tt.want {
				t.Errorf("Status = %s, want %s", got.Status, tt.want)
			}
			if got.Healthy != (tt.want != HealthStatusUnhealthy) {
				t.Errorf("Healthy = %v for status %s", got.Healthy, got.Status)
			}
			for name := range tt.components {
				if got.Components[name].Name != name {
					t.Errorf("component %q name = %q", name, got.Components[name].Name)
				}
			}
		})
	}
}

func TestHealthChecker_Timeout(t *testing.T) {
	t.Parallel()

	h := NewHealthChecker(20 * time.Millisecond)
	h.RegisterComponent("slow", slowHealth{})

	got := h.CheckAll(context.Background())
	if got.Healthy {
		t.Error("CheckAll() healthy with timed out component")
	}
	if got.Components["slow"].Error != "health check timeout" {
		t.Errorf("slow component = %+v", got.Components["slow"])
	}
}
