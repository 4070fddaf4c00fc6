package errors

import (
	"strings"
	"unicode"
)

// ValidateRoomName validates a program room name for safety and
// correctness before it is used in lookups, fingerprints, and reports.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//
// Program-specific semantics (zone, area) are validated separately by
// the specification adapter.
func ValidateRoomName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProgram, "room name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidProgram, "room name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProgram, "room name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePanelID validates a panel identifier supplied by the external
// rendering layer. Panel IDs appear in file paths for decoded artifacts,
// so path metacharacters are rejected outright.
func ValidatePanelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidManifest, "panel id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidManifest, "panel id too long (max 256 characters)")
	}

	dangerous := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerous {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidManifest, "panel id contains invalid characters: %q", pattern)
		}
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "panel id contains invalid control characters")
		}
	}

	return nil
}
