package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownVariation, "unknown variation: %s", "foo")

	if err.Code != ErrCodeUnknownVariation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownVariation)
	}

	if err.Message != "unknown variation: foo" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown variation: foo")
	}

	expected := "UNKNOWN_VARIATION: unknown variation: foo"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := New(ErrCodeMissingLibraryFunction, "library function %q is not registered", "noise_base")
	err := Wrap(ErrCodeDependencyResolution, cause, "cannot resolve dependencies")

	if err.Code != ErrCodeDependencyResolution {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDependencyResolution)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnboundParameter, "test"),
			code:     ErrCodeUnboundParameter,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnboundParameter, "test"),
			code:     ErrCodeUnknownVariation,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeDependencyResolution, New(ErrCodeMissingLibraryFunction, "inner"), "outer"),
			code:     ErrCodeDependencyResolution,
			expected: true,
		},
		{
			name:     "inner code not matched",
			err:      Wrap(ErrCodeDependencyResolution, New(ErrCodeMissingLibraryFunction, "inner"), "outer"),
			code:     ErrCodeMissingLibraryFunction,
			expected: false,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHas(t *testing.T) {
	inner := New(ErrCodeMissingLibraryFunction, "inner")
	wrapped := Wrap(ErrCodeDependencyResolution, inner, "outer")
	viaFmt := fmt.Errorf("compose: %w", wrapped)

	for _, code := range []Code{ErrCodeDependencyResolution, ErrCodeMissingLibraryFunction} {
		if !Has(viaFmt, code) {
			t.Errorf("Has(%s) = false, want true", code)
		}
	}
	if Has(viaFmt, ErrCodeUnknownVariation) {
		t.Error("Has(UNKNOWN_VARIATION) = true, want false")
	}
	if Has(nil, ErrCodeInternal) {
		t.Error("Has(nil) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeDuplicateVariation, "test"),
			expected: ErrCodeDuplicateVariation,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("ctx: %w", New(ErrCodeDependencyCycle, "test")),
			expected: ErrCodeDependencyCycle,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeUnknownVariation, true},
		{ErrCodeUnknownParameter, true},
		{ErrCodeIncompatibleGeometry, true},
		{ErrCodeMissingLibraryFunction, false},
		{ErrCodeDependencyResolution, false},
		{ErrCodeUnboundParameter, false},
		{ErrCodeDependencyCycle, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsRecoverable(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsRecoverable(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}

	if IsRecoverable(errors.New("plain")) {
		t.Error("IsRecoverable(plain) = true, want false")
	}
}

func TestDetails(t *testing.T) {
	inner := New(ErrCodeMissingLibraryFunction, "not registered").With("id", "noise_base")
	err := Wrap(ErrCodeDependencyResolution, inner, "cannot resolve").With("plugin", "perlin")

	if got := Detail(err, "plugin"); got != "perlin" {
		t.Errorf("Detail(plugin) = %q, want perlin", got)
	}
	if got := Detail(err, "id"); got != "noise_base" {
		t.Errorf("Detail(id) = %q, want noise_base", got)
	}
	if got := Detail(err, "missing"); got != "" {
		t.Errorf("Detail(missing) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "with details",
			err:      New(ErrCodeUnboundParameter, "unbound").With("plugin", "julian").With("param", "power"),
			expected: "unbound (param=power, plugin=julian)",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
