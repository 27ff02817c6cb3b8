// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package validation

import (
	"strings"
	"testing"
)

type testJob struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Mode   string `json:"mode,omitempty" validate:"omitempty,oneof=popular full"`
	Pages  int    `json:"pages" validate:"gte=0,lte=500"`
	Note   string `validate:"omitempty,max=5"`
	Hidden string `json:"-" validate:"omitempty,min=2"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	job := testJob{UserID: "0b7e9c1e-3f0a-4b7a-9d36-4c1f9f0a2e11", Mode: "full", Pages: 500}
	if verr := ValidateStruct(&job); verr != nil {
		t.Errorf("ValidateStruct() = %v, want nil", verr)
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		job       testJob
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"missing user", testJob{}, "user_id", "required", "user_id is required"},
		{"malformed user", testJob{UserID: "nope"}, "user_id", "uuid", "user_id must be a valid UUID"},
		{"unknown mode", testJob{UserID: "0b7e9c1e-3f0a-4b7a-9d36-4c1f9f0a2e11", Mode: "nightly"}, "mode", "oneof", "mode must be one of: popular full"},
		{"too many pages", testJob{UserID: "0b7e9c1e-3f0a-4b7a-9d36-4c1f9f0a2e11", Pages: 501}, "pages", "lte", "pages must be less than or equal to 500"},
		{"negative pages", testJob{UserID: "0b7e9c1e-3f0a-4b7a-9d36-4c1f9f0a2e11", Pages: -1}, "pages", "gte", "pages must be greater than or equal to 0"},
		{"untagged field", testJob{UserID: "0b7e9c1e-3f0a-4b7a-9d36-4c1f9f0a2e11", Note: "too long"}, "Note", "max", "Note failed max validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.job)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("Errors() = %d entries, want 1: %v", len(errs), verr)
			}
			fe := errs[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
			if fe.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&testJob{Mode: "nightly", Pages: 900})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(verr.Errors()) != 3 {
		t.Errorf("Errors() = %d entries, want 3", len(verr.Errors()))
	}
	msg := verr.Error()
	for _, want := range []string{"user_id is required", "mode must be one of", "pages must be less than"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if verr.Errors()[2].Param() != "500" || verr.Errors()[2].Value() != 900 {
		t.Errorf("param/value = %s/%v, want 500/900", verr.Errors()[2].Param(), verr.Errors()[2].Value())
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("ValidateStruct(string) = nil, want error")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	if got := (&RequestValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
