package buttons

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when the configuration file, or a file an action
// depends on, does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration file '%s' not found", e.Path)
}

// ParseError reports a malformed configuration document. No part of the
// document is installed when it is returned.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing configuration: %v", e.Err)
	}
	return fmt.Sprintf("parsing configuration %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError wraps a read, write or directory creation failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ValidationError holds one or more rejected values.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// TargetNotFoundError is returned at execution time when an action's target
// path is missing.
type TargetNotFoundError struct {
	Target string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("path '%s' was not found", e.Target)
}

// LaunchError reports that the OS failed to start a process or open a handler.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start '%s': %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// UnknownButtonError is returned when no loaded entry has the requested id.
type UnknownButtonError struct {
	ID string
}

func (e *UnknownButtonError) Error() string {
	return fmt.Sprintf("no button with id '%s'", e.ID)
}
