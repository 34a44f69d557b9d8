package domain

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	baseErr := errors.New("must be positive")
	err := NewConfigError("feed.interval_ms", baseErr)

	expected := "config error [feed.interval_ms]: must be positive"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}

	if !errors.Is(err, baseErr) {
		t.Error("Expected ConfigError to wrap baseErr")
	}

	var ce *ConfigError
	if !errors.As(error(err), &ce) || ce.Field != "feed.interval_ms" {
		t.Error("Expected errors.As to recover the field")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TokenStatus
		wantErr bool
	}{
		{"new", StatusNew, false},
		{"final-stretch", StatusFinalStretch, false},
		{"migrated", StatusMigrated, false},
		{"graduated", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}
