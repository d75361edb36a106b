// Package errors provides custom error types for the sigscope system.
// These errors enable programmatic error checking with errors.Is/errors.As
// across the inspector and the signals runtime.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the sigscope system
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownMethod indicates a method lookup that matched no table entry
	ErrUnknownMethod = errors.New("unknown method")

	// ErrNotSignal indicates an operation that requires a signal was given a plain method
	ErrNotSignal = errors.New("not a signal")

	// ErrTypeMismatch indicates argument values that do not fit a signature
	ErrTypeMismatch = errors.New("argument type mismatch")

	// ErrAmbiguousSignal indicates argument values accepted by more than one overload
	ErrAmbiguousSignal = errors.New("ambiguous signal")

	// ErrClosed indicates use of an inspector or handle after it was closed
	ErrClosed = errors.New("closed")
)

// UnknownMethodError reports a lookup that matched no method table entry.
type UnknownMethodError struct {
	Type  string
	Name  string // set when the lookup was by name
	Index int    // set (with Name empty) when the lookup was by index
}

// Error implements the error interface
func (e *UnknownMethodError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("type %s has no signal named %s", e.Type, e.Name)
	}
	return fmt.Sprintf("type %s has no method at index %d", e.Type, e.Index)
}

// Is implements errors.Is support
func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// NewUnknownMethodError creates an UnknownMethodError for a lookup by name
func NewUnknownMethodError(typeName, name string) *UnknownMethodError {
	return &UnknownMethodError{Type: typeName, Name: name}
}

// NewUnknownIndexError creates an UnknownMethodError for a lookup by index
func NewUnknownIndexError(typeName string, index int) *UnknownMethodError {
	return &UnknownMethodError{Type: typeName, Index: index}
}

// ArgumentError reports argument values that do not match a signal signature.
type ArgumentError struct {
	Signature string
	Reason    string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("arguments do not match %s: %s", e.Signature, e.Reason)
	}
	return fmt.Sprintf("arguments do not match %s", e.Signature)
}

// Is implements errors.Is support
func (e *ArgumentError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NewArgumentError creates a new ArgumentError
func NewArgumentError(signature, reason string) *ArgumentError {
	return &ArgumentError{Signature: signature, Reason: reason}
}

// AmbiguousSignalError reports argument values accepted by several overloads
// of the same signal name.
type AmbiguousSignalError struct {
	Type    string
	Name    string
	Matches []string // signatures of the overloads that accepted the arguments
}

// Error implements the error interface
func (e *AmbiguousSignalError) Error() string {
	return fmt.Sprintf("signal %s.%s: %d overloads accept the given arguments", e.Type, e.Name, len(e.Matches))
}

// Is implements errors.Is support
func (e *AmbiguousSignalError) Is(target error) bool {
	return target == ErrAmbiguousSignal
}

// IsUnknownMethod checks if an error indicates a failed method lookup
func IsUnknownMethod(err error) bool {
	return errors.Is(err, ErrUnknownMethod)
}

// IsNotSignal checks if an error indicates a non-signal method
func IsNotSignal(err error) bool {
	return errors.Is(err, ErrNotSignal)
}

// IsTypeMismatch checks if an error indicates mismatched arguments
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsAmbiguous checks if an error indicates an ambiguous overload resolution
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousSignal)
}

// IsClosed checks if an error indicates use after close
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// WrapSignal wraps an error with the operation and signal signature it concerns
func WrapSignal(operation, signature string, err error) error {
	return fmt.Errorf("%s %s: %w", operation, signature, err)
}
