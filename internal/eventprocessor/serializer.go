// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/validation"
)

// Serializer encodes job payloads as JSON and validates them on decode.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts a payload to JSON bytes. Payloads are not validated on
// the way out; a malformed id is the worker's concern.
func (s *Serializer) Marshal(payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}

// Decode unmarshals data into payload and validates it. Errors wrap
// ErrUndecodablePayload or ErrInvalidPayload.
func (s *Serializer) Decode(data []byte, payload interface{}) error {
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodablePayload, err)
	}
	if verr := validation.ValidateStruct(payload); verr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, verr)
	}
	return nil
}
