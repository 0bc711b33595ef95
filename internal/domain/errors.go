// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested workspace, member or workflow does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a workflow was saved by someone else since it was read.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation marks a malformed request. Structural workflow problems are
// reported through workflow.Report instead and never use this error.
var ErrValidation = errors.New("validation failed")

// ErrUnavailable marks an operation whose backing infrastructure is not
// configured or not reachable.
var ErrUnavailable = errors.New("unavailable")
