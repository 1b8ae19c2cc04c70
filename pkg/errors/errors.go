// Package errors provides structured error types for tmplgen.
//
// Every failure that reaches the user carries a machine-readable [Code] so
// the CLI (and tests) can tell a refusal ("this gem ships with ruby") apart
// from a real failure ("rubygems.org is down").
//
// # Error Codes
//
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND / *_DOES_NOT_EXIST: missing packages or templates
//   - REGISTRY_UNAVAILABLE, CHECKSUM_FAILURE: network-side failures
//   - BUILT_IN_PACKAGE, TEMPLATE_ALREADY_EXISTS: refusals, not failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeBuiltInPackage, "won't write a template for built-in package %s", name)
//	if errors.Is(err, errors.ErrCodeBuiltInPackage) {
//	    // skip
//	}
//
//	err := errors.Wrap(errors.ErrCodeChecksumFailure, origErr, "download %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidType    Code = "INVALID_TYPE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Registry errors
	ErrCodeRegistryUnavailable Code = "REGISTRY_UNAVAILABLE"
	ErrCodePackageNotFound     Code = "PACKAGE_NOT_FOUND"
	ErrCodeAmbiguousPackage    Code = "AMBIGUOUS_PACKAGE"

	// Refusals
	ErrCodeBuiltInPackage        Code = "BUILT_IN_PACKAGE"
	ErrCodeTemplateAlreadyExists Code = "TEMPLATE_ALREADY_EXISTS"
	ErrCodeTemplateDoesNotExist  Code = "TEMPLATE_DOES_NOT_EXIST"

	// Builder misuse
	ErrCodeMissingPrerequisite Code = "MISSING_PREREQUISITE"

	// Collaborator failures
	ErrCodeChecksumFailure      Code = "CHECKSUM_FAILURE"
	ErrCodeMaintainerResolution Code = "MAINTAINER_RESOLUTION"
	ErrCodeEncoding             Code = "ENCODING_FAILURE"
	ErrCodeDistDir              Code = "DISTDIR_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by typed errors that carry extra fields but still
// belong to one of the codes above.
type coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It walks the error chain and matches the first coded error it finds,
// either an *Error or a typed error exposing Code().
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// AmbiguousPackageError is returned when a package name exists on more than
// one registry and no type was pinned.
type AmbiguousPackageError struct {
	Name      string
	Platforms []string
}

// Error implements the error interface.
func (e *AmbiguousPackageError) Error() string {
	return fmt.Sprintf("found package %s on multiple platforms (%s), please pick one explicitly via --type",
		e.Name, strings.Join(e.Platforms, ", "))
}

// Code returns the error code for this error type.
func (e *AmbiguousPackageError) Code() Code {
	return ErrCodeAmbiguousPackage
}
