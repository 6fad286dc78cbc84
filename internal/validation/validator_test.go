// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package validation

import (
	"math"
	"strings"
	"testing"
)

type queryParams struct {
	Limit     int    `validate:"min=1,max=100"`
	Emphasize string `validate:"omitempty,dimension"`
	Source    string `validate:"omitempty,oneof=embedding features"`
}

type vectorPayload struct {
	ID        string    `validate:"required"`
	Embedding []float32 `validate:"omitempty,finite"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1, v2 := GetValidator(), GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name    string
		input   interface{}
		wantTag string
	}{
		{"valid query", &queryParams{Limit: 10, Emphasize: "Color"}, ""},
		{"empty emphasis", &queryParams{Limit: 1}, ""},
		{"limit too small", &queryParams{Limit: 0}, "min"},
		{"limit too large", &queryParams{Limit: 101}, "max"},
		{"unknown dimension", &queryParams{Limit: 5, Emphasize: "texture"}, "dimension"},
		{"bad source", &queryParams{Limit: 5, Source: "random"}, "oneof"},
		{"valid vector", &vectorPayload{ID: "a", Embedding: []float32{0.1, -2}}, ""},
		{"no vector", &vectorPayload{ID: "a"}, ""},
		{"nan vector", &vectorPayload{ID: "a", Embedding: []float32{1, nan}}, "finite"},
		{"inf vector", &vectorPayload{ID: "a", Embedding: []float32{inf}}, "finite"},
		{"missing id", &vectorPayload{}, "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateStruct() = nil, want %s error", tt.wantTag)
			}
			if got := err.Errors()[0].Tag(); got != tt.wantTag {
				t.Errorf("tag = %q, want %q", got, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&queryParams{Limit: 500})
	apiErr := single.ToAPIError()
	if apiErr.Code != CodeValidation {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "Limit must be at most 100" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	multi := ValidateStruct(&queryParams{Limit: 0, Emphasize: "texture"}).ToAPIError()
	if !strings.Contains(multi.Message, "Limit: ") || !strings.Contains(multi.Message, "Emphasize: ") {
		t.Errorf("Message = %q, want both fields", multi.Message)
	}
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v", multi.Details["fields"])
	}

	if (&RequestValidationError{}).ToAPIError().Message != "Validation failed" {
		t.Error("empty error should map to the generic message")
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	type named struct {
		Name string `validate:"min=3"`
		URL  string `validate:"omitempty,url"`
	}

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string min", &named{Name: "ab"}, "Name must be at least 3 characters"},
		{"url", &named{Name: "abc", URL: "not a url"}, "URL must be a valid URL"},
		{"dimension", &queryParams{Limit: 1, Emphasize: "x"}, "Emphasize must be one of: visual color semantic style content contextual"},
		{"finite", &vectorPayload{ID: "a", Embedding: []float32{float32(math.NaN())}}, "Embedding must contain only finite numbers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
