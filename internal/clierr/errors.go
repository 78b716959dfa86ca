// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr provides error classification, exit codes and user-friendly
// error formatting for the CLI.
package clierr

import (
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Common error types for CLI output.
const (
	TypeUsage     = "usage"     // Bad arguments, empty required selection
	TypeExternal  = "external"  // Wrapped tool exited non-zero
	TypeNotFound  = "not_found" // Resource or resource type not found
	TypeForbidden = "forbidden" // RBAC access denied
	TypeNetwork   = "network"   // Connection/network errors
	TypeInternal  = "internal"  // Internal/unexpected errors
)

// ExitUsage is the exit status for usage and validation errors.
const ExitUsage = 1

// UsageError reports invalid input. The process exits with ExitUsage and the
// message is shown without hints.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

// Usage builds a UsageError.
func Usage(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is or wraps a UsageError.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// ExitCode maps err to a process exit status: 0 for nil, the wrapped tool's
// status when err carries one, ExitUsage otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec exitCoder
	if errors.As(err, &ec) && ec.ExitCode() > 0 {
		return ec.ExitCode()
	}
	return ExitUsage
}

// IsExternal reports whether err came from a wrapped tool exiting non-zero.
// Those tools already printed their own diagnostics.
func IsExternal(err error) bool {
	var ec exitCoder
	return errors.As(err, &ec)
}

// IsForbidden checks if the error is an access denied (RBAC) error.
func IsForbidden(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsForbidden(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "unauthorized")
}

// IsNotFound checks if the error indicates a missing resource or binary.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsNotFound(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no matches for kind") ||
		strings.Contains(msg, "the server doesn't have a resource type")
}

// IsNetworkError checks if the error is a connection/network error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "context deadline exceeded")
}

// ClassifyError determines the type of error for appropriate handling.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsUsage(err) {
		return TypeUsage
	}
	if IsExternal(err) {
		return TypeExternal
	}
	if IsForbidden(err) {
		return TypeForbidden
	}
	if IsNotFound(err) {
		return TypeNotFound
	}
	if IsNetworkError(err) {
		return TypeNetwork
	}
	return TypeInternal
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	baseMsg := err.Error()

	switch ClassifyError(err) {
	case TypeUsage:
		return baseMsg

	case TypeExternal:
		return fmt.Sprintf("Command failed: %s", baseMsg)

	case TypeForbidden:
		return fmt.Sprintf("Access denied: %s\n\nHint: Check your RBAC permissions:\n"+
			"  - kubectl auth can-i list <resource> to verify permissions", baseMsg)

	case TypeNotFound:
		if strings.Contains(baseMsg, "executable file not found") {
			return fmt.Sprintf("Missing tool: %s\n\nHint: Install it or point kubefzf at it in the config file.", baseMsg)
		}
		return fmt.Sprintf("Not found: %s", baseMsg)

	case TypeNetwork:
		return fmt.Sprintf("Connection error: %s\n\nHint: Check your cluster connectivity:\n"+
			"  - kubectl cluster-info to verify connection\n"+
			"  - Ensure your kubeconfig is correct", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// NothingFound returns the warning shown when a listing has no data rows.
// This is different from an error - it's a valid "empty" result.
func NothingFound(resource, scope string) string {
	if scope == "" {
		return fmt.Sprintf("No %s found", resource)
	}
	return fmt.Sprintf("No %s found in %s", resource, scope)
}
