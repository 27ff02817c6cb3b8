// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import "errors"

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrNilPublisher is returned when a component is built without a publisher.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnknownJob is returned for a job kind with no topic.
var ErrUnknownJob = errors.New("unknown job kind")

// ErrUndecodablePayload is returned when a job payload is not valid JSON for its kind.
var ErrUndecodablePayload = errors.New("undecodable job payload")

// ErrInvalidPayload is returned when a decoded payload fails validation.
var ErrInvalidPayload = errors.New("invalid job payload")
