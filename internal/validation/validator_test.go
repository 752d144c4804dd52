// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package validation

import (
	"strings"
	"testing"
)

type graphRequest struct {
	Limit int    `json:"limit" validate:"min=1,max=500"`
	Table string `json:"table" validate:"omitempty,sqlident"`
}

type nestedConfig struct {
	Inner struct {
		Path  string `koanf:"path" validate:"required"`
		Level string `koanf:"level" validate:"oneof=debug info"`
	} `koanf:"inner"`
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Fatal("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     graphRequest
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{name: "valid", input: graphRequest{Limit: 5, Table: "question1_1"}},
		{name: "empty table allowed", input: graphRequest{Limit: 500}},
		{name: "limit zero", input: graphRequest{Limit: 0}, wantErr: true, wantField: "limit", wantMsg: "limit must be at least 1"},
		{name: "limit too large", input: graphRequest{Limit: 501}, wantErr: true, wantField: "limit", wantMsg: "limit must be at most 500"},
		{name: "table injection", input: graphRequest{Limit: 1, Table: "x; DROP TABLE y"}, wantErr: true, wantField: "table", wantMsg: "table must be a plain identifier"},
		{name: "table leading digit", input: graphRequest{Limit: 1, Table: "1abc"}, wantErr: true, wantField: "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1", len(err.Errors()))
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fe.Field(), tt.wantField)
			}
			if tt.wantMsg != "" && fe.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_NestedKoanfPaths(t *testing.T) {
	var cfg nestedConfig
	cfg.Inner.Level = "verbose"

	err := ValidateStruct(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"inner.path is required", "inner.level must be one of: debug info"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&graphRequest{Limit: 0})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "limit" {
		t.Errorf("Details[field] = %v", apiErr.Details["field"])
	}

	multi := ValidateStruct(&graphRequest{Limit: 0, Table: "bad name"})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}

	empty := &RequestValidationError{}
	if empty.ToAPIError().Message != "Validation failed" {
		t.Error("empty error should produce generic message")
	}
}
