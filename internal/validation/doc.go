// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the process; it caches struct
// metadata, so every caller goes through GetValidator or ValidateStruct.
// Failures are returned as a RequestValidationError whose messages name
// the JSON field that failed:
//
//	type UserJob struct {
//	    UserID string `json:"user_id" validate:"required,uuid"`
//	}
//
//	if verr := validation.ValidateStruct(&job); verr != nil {
//	    return fmt.Errorf("%w: %v", ErrInvalidPayload, verr)
//	}
//
// ValidateStruct returns a typed pointer. Compare it with nil before
// converting it to error.
//
// Callers:
//   - eventprocessor.Serializer validates every decoded job payload
//   - catalog.SyncRequest.Validate checks sync requests before a run
package validation
