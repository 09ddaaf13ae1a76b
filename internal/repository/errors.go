// Package repository holds the raw SQL data access layer.  Domain
// failure kinds (not found, invalid transition, ...) live in the model
// package; the sentinels here cover storage-level situations that do
// not map onto the domain taxonomy.
package repository

import "errors"

// ErrEmailExists is returned when registering a user whose email is
// already taken.  Handlers should translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
