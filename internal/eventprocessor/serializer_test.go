// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSerializer_Decode(t *testing.T) {
	t.Parallel()

	s := NewSerializer()
	id := uuid.NewString()

	tests := []struct {
		name    string
		payload string
		target  interface{}
		wantErr error
	}{
		{"valid user job", `{"user_id":"` + id + `"}`, &UserJob{}, nil},
		{"valid friend match", `{"user_a_id":"` + id + `","user_b_id":"` + uuid.NewString() + `"}`, &FriendMatchJob{}, nil},
		{"valid catalog sync", `{"mode":"full","start_year":2000,"end_year":2001}`, &CatalogSyncJob{}, nil},
		{"not json", `user_id=abc`, &UserJob{}, ErrUndecodablePayload},
		{"wrong type", `{"user_id":7}`, &UserJob{}, ErrUndecodablePayload},
		{"malformed uuid", `{"user_id":"not-a-uuid"}`, &UserJob{}, ErrInvalidPayload},
		{"missing user id", `{}`, &UserJob{}, ErrInvalidPayload},
		{"missing friend", `{"user_a_id":"` + id + `"}`, &FriendMatchJob{}, ErrInvalidPayload},
		{"unknown sync mode", `{"mode":"nightly"}`, &CatalogSyncJob{}, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := s.Decode([]byte(tt.payload), tt.target)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Decode() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSerializer_MarshalDoesNotValidate(t *testing.T) {
	t.Parallel()

	data, err := NewSerializer().Marshal(UserJob{UserID: "bogus"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"user_id":"bogus"}` {
		t.Errorf("Marshal() = %s", data)
	}
}
