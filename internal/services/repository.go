// Package services provides repository interfaces and SQLite implementations
// for data access. This layer bridges the raw SQLite store with the HTTP API,
// providing a clean abstraction over persistence operations.
//
// List methods return the full collection: the dashboard fetches everything
// and filters, sorts, and paginates client-side.
package services

import (
	"errors"
	"strings"
)

// Sentinel errors returned by repositories.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidReference  = errors.New("referenced record does not exist")
)

// translateConstraint maps SQLite constraint violations onto the sentinel
// errors handlers know how to answer. Unrecognized errors pass through.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "UNIQUE constraint failed: users.email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrInvalidReference
	}
	return err
}
