// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package testinfra provides container-backed test infrastructure.
//
// Everything here is compiled only with the integration build tag and uses
// testcontainers-go to run real services in Docker:
//
//	//go:build integration
//
//	func TestRedisStore_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//
//	    ctx := context.Background()
//	    rc, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, rc)
//
//	    client := redis.NewClient(&redis.Options{Addr: rc.Addr})
//	    // ...
//	}
//
// Tests skip gracefully when Docker is unavailable. The first run pulls the
// image; later runs use the local cache.
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
