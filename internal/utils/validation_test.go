package utils

import (
	stderrors "errors"
	"testing"

	"github.com/toyz/docanno/internal/errors"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"not empty ok", NotEmpty("framework")("gin"), false},
		{"not empty fails", NotEmpty("framework")(""), true},
		{"not empty blank", NotEmpty("framework")("  "), true},
		{"one of ok", IsOneOf("format", "text", "json")("json"), false},
		{"one of fails", IsOneOf("format", "text", "json")("yaml"), true},
		{"slice ok", SliceNotEmpty[string]("targets")([]string{"."}), false},
		{"slice fails", SliceNotEmpty[string]("targets")(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", tt.err, tt.wantErr)
			}
		})
	}
}

func TestValidators_ConfigurationError(t *testing.T) {
	err := IsOneOf("format", "text", "json")("yaml")

	var base *errors.BaseError
	if !stderrors.As(err, &base) {
		t.Fatalf("expected BaseError, got %T", err)
	}
	if base.Code != errors.ConfigurationErrorCode {
		t.Errorf("unexpected code %v", base.Code)
	}
	if base.Context()["setting"] != "format" {
		t.Errorf("unexpected context %v", base.Context())
	}
	if err.Error() != "invalid format: yaml is not one of text, json" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
