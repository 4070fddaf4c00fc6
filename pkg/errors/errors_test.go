package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidSpec, "floor count must be positive, got %d", -1),
			want: "INVALID_SPEC: floor count must be positive, got -1",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, fmt.Errorf("disk full"), "write artifact"),
			want: "INTERNAL_ERROR: write artifact: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeEnvelopeExpansion, "requested area exceeds footprint capacity")

	if !Is(err, ErrCodeEnvelopeExpansion) {
		t.Error("Is() = false for matching code, want true")
	}
	if Is(err, ErrCodeInvalidSpec) {
		t.Error("Is() = true for non-matching code, want false")
	}
	if Is(stderrors.New("plain"), ErrCodeEnvelopeExpansion) {
		t.Error("Is() = true for plain error, want false")
	}
}

func TestIsUnwrapsChain(t *testing.T) {
	inner := New(ErrCodeEmptyFloor, "floor 2 has no rooms")
	outer := fmt.Errorf("distribute: %w", inner)

	if !Is(outer, ErrCodeEmptyFloor) {
		t.Error("Is() did not unwrap wrapped *Error")
	}
	if GetCode(outer) != ErrCodeEmptyFloor {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodeEmptyFloor)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(ErrCodeTimeout, cause, "panel check")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is() did not find wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "structured error strips code",
			err:  New(ErrCodeGateSanity, "occupancy below threshold"),
			want: "occupancy below threshold",
		},
		{
			name: "plain error passes through",
			err:  stderrors.New("plain failure"),
			want: "plain failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCodeOnPlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
