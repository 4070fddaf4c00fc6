package errors

import (
	"strings"
	"testing"
)

func TestValidateRoomName(t *testing.T) {
	tests := []struct {
		name    string
		room    string
		wantErr bool
	}{
		{"simple name", "Living Room", false},
		{"unicode name", "Küche", false},
		{"empty", "", true},
		{"control character", "bed\x01room", true},
		{"too long", strings.Repeat("a", 129), true},
		{"max length ok", strings.Repeat("a", 128), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomName(tt.room)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomName(%q) error = %v, wantErr %v", tt.room, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidProgram {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidProgram)
			}
		})
	}
}

func TestValidatePanelID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple id", "floorplan-0", false},
		{"uuid style", "2b1c0a9e-77aa-4d2f-9f0e-1d2c3b4a5e6f", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"double slash", "panels//0", true},
		{"null byte", "panel\x00", true},
		{"backslash", `panels\0`, true},
		{"too long", strings.Repeat("p", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanelID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePanelID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
