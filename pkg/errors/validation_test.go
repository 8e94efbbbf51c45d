package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mona-lisa", false},
		{"valid uuid", "0b8f7a1e-3a52-4a8e-9bb0-6b2a3c1d9f00", false},
		{"valid with underscore", "frame_12", false},
		{"valid with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("item", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "East Wing", false},
		{"valid with tab", "Room\t1", false},
		{"unicode", "Salle des États", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("x", 300), true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidPlacement,
		ErrCodeInvalidFormat,
		ErrCodeNotFound,
		ErrCodeWallNotFound,
		ErrCodeSessionNotFound,
		ErrCodeConflictingInteraction,
		ErrCodeNoActiveInteraction,
		ErrCodeUnauthorized,
		ErrCodeForbidden,
		ErrCodeSessionExpired,
		ErrCodeStorage,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
