// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package validation

import (
	"strings"
	"testing"

	"github.com/msgvault/msgvault/internal/models"
)

func TestValidateStructLoginRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr bool
		errPart string
	}{
		{
			name:    "valid",
			req:     models.LoginRequest{Username: "admin", Password: "hunter22"},
			wantErr: false,
		},
		{
			name:    "missing username",
			req:     models.LoginRequest{Password: "hunter22"},
			wantErr: true,
			errPart: "Username is required",
		},
		{
			name:    "missing password",
			req:     models.LoginRequest{Username: "admin"},
			wantErr: true,
			errPart: "Password is required",
		},
		{
			name:    "username too long",
			req:     models.LoginRequest{Username: strings.Repeat("a", 101), Password: "x"},
			wantErr: true,
			errPart: "at most 100 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestValidateStructMessageRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateMessageRequest
		wantErr bool
	}{
		{"valid", models.CreateMessageRequest{Code: "GREETING", Content: "hello"}, false},
		{"empty code", models.CreateMessageRequest{Content: "hello"}, true},
		{"code too long", models.CreateMessageRequest{Code: strings.Repeat("c", 51), Content: "hello"}, true},
		{"content too long", models.CreateMessageRequest{Code: "C1", Content: strings.Repeat("x", 501)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	req := models.LoginRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors()))
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-field error should carry a fields detail list")
	}
}
