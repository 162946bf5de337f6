// Package errors defines the typed failures surfaced by wallseed.
package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DecodeError reports an image that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

// NewDecodeError constructs a DecodeError.
func NewDecodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("decode image %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NetworkError reports a transport-level failure reaching the model endpoint.
type NetworkError struct {
	Endpoint string
	Err      error
}

// NewNetworkError constructs a NetworkError.
func NewNetworkError(endpoint string, err error) error {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

func (e *NetworkError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("model request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap exposes the underlying error.
func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnusableResponseError reports a reachable model that never produced a palette.
type UnusableResponseError struct {
	Attempts int
	Body     string
}

// NewUnusableResponseError constructs an UnusableResponseError. body is the
// last raw response and is truncated for display.
func NewUnusableResponseError(attempts int, body string) error {
	const maxBody = 200
	if len(body) > maxBody {
		cut := maxBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return &UnusableResponseError{Attempts: attempts, Body: body}
}

func (e *UnusableResponseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("model returned unusable data after %d attempts", e.Attempts)
}

// CacheIOError reports a palette cache file that could not be read or written.
type CacheIOError struct {
	Path string
	Op   string
	Err  error
}

// NewCacheIOError constructs a CacheIOError for the given operation.
func NewCacheIOError(path, op string, err error) error {
	return &CacheIOError{Path: path, Op: op, Err: err}
}

func (e *CacheIOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *CacheIOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenderError reports a renderer process that was missing or exited non-zero.
type RenderError struct {
	Binary   string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

// NewRenderError constructs a RenderError. exitCode is -1 when the process never ran.
func NewRenderError(binary string, args []string, exitCode int, output string, err error) error {
	return &RenderError{Binary: binary, Args: args, ExitCode: exitCode, Output: output, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	cmdline := strings.TrimSpace(e.Binary + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("render %q", cmdline)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap exposes the underlying error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
