// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and initializes logging from it.
// An explicit --config path must exist; the default search paths are
// optional.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.configFlag != nil {
			if path := strings.TrimSpace(*c.configFlag); path != "" {
				if _, err := os.Stat(path); err != nil {
					c.configErr = fmt.Errorf("config file: %w", err)
					return
				}
				if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
					c.configErr = err
					return
				}
			}
		}

		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}

		logging.Init(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Caller:    cfg.Logging.Caller,
			Timestamp: true,
		})
		metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

		c.config = cfg
	})
	return c.config, c.configErr
}

// withApp builds the components a command needs, runs fn and closes them.
func (c *commandContext) withApp(cmd *cobra.Command, opts appOptions, fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// withCorrelation tags every job a command enqueues with one correlation id.
func withCorrelation(cmd *cobra.Command) context.Context {
	return logging.ContextWithNewCorrelationID(cmd.Context())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
