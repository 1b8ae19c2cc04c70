package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeBuiltInPackage, "won't write a template for %s", "json")

	if err.Code != ErrCodeBuiltInPackage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeBuiltInPackage)
	}

	if err.Message != "won't write a template for json" {
		t.Errorf("Message = %v, want %v", err.Message, "won't write a template for json")
	}

	expected := "BUILT_IN_PACKAGE: won't write a template for json"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeChecksumFailure, cause, "download failed")

	if err.Code != ErrCodeChecksumFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeChecksumFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
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
			err:      New(ErrCodePackageNotFound, "test"),
			code:     ErrCodePackageNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePackageNotFound, "test"),
			code:     ErrCodeRegistryUnavailable,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeRegistryUnavailable, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeRegistryUnavailable,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("walk: %w", New(ErrCodeTemplateAlreadyExists, "exists")),
			code:     ErrCodeTemplateAlreadyExists,
			expected: true,
		},
		{
			name:     "typed error",
			err:      &AmbiguousPackageError{Name: "x", Platforms: []string{"crates.io", "rubygems.org"}},
			code:     ErrCodeAmbiguousPackage,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
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

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeMissingPrerequisite, "test"), ErrCodeMissingPrerequisite},
		{"typed error", &AmbiguousPackageError{Name: "x"}, ErrCodeAmbiguousPackage},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"wrapped", Wrap(ErrCodeDistDir, errors.New("boom"), "cannot read"), "cannot read: boom"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAmbiguousPackageError(t *testing.T) {
	err := &AmbiguousPackageError{Name: "ffi", Platforms: []string{"crates.io", "rubygems.org"}}
	want := "found package ffi on multiple platforms (crates.io, rubygems.org), please pick one explicitly via --type"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
