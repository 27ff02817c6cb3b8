// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSlogLoggerFor(zerolog.New(&buf).Level(level)), &buf
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"debug", slog.LevelDebug, `"level":"debug"`},
		{"info", slog.LevelInfo, `"level":"info"`},
		{"warn", slog.LevelWarn, `"level":"warn"`},
		{"error", slog.LevelError, `"level":"error"`},
		{"above error", slog.LevelError + 4, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, buf := newBufferedSlog(zerolog.TraceLevel)
			logger.Log(context.Background(), tt.level, "msg")
			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("output = %s, want %s", buf.String(), tt.wantLevel)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true for warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false for warn logger")
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.Info("service event",
		slog.String("service", "router"),
		slog.Int("restarts", 2),
		slog.Uint64("handled", 7),
		slog.Float64("backoff", 1.5),
		slog.Bool("terminated", false),
		slog.Duration("elapsed", time.Second),
		slog.Time("at", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		slog.Any("err", errors.New("panic recovered")),
		slog.Any("tags", []string{"a"}),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"router"`, `"restarts":2`, `"handled":7`, `"backoff":1.5`,
		`"terminated":false`, `"elapsed":1000`, `"at":"2026-01-02T03:04:05Z"`,
		`"error":"panic recovered"`, `"tags":["a"]`, `"message":"service event"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.With("supervisor", "marquee").WithGroup("svc").Info("restart", "name", "api",
		slog.Group("backoff", slog.Int("n", 3)))

	output := buf.String()
	for _, want := range []string{`"supervisor":"marquee"`, `"svc.name":"api"`, `"svc.backoff.n":3`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.Nop())
	if h.WithGroup("") != slog.Handler(h) {
		t.Error("WithGroup(\"\") returned a new handler")
	}
	if h.WithAttrs(nil) != slog.Handler(h) {
		t.Error("WithAttrs(nil) returned a new handler")
	}
}

func TestSlogHandler_CorrelationID(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	ctx := ContextWithCorrelationID(context.Background(), "corr0004")
	logger.InfoContext(ctx, "message handled")

	if !strings.Contains(buf.String(), `"correlation_id":"corr0004"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
