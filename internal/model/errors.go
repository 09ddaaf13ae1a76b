// Package model defines the domain entities of the banquet hall
// booking system together with the error taxonomy shared by the
// workflow, repository and handler layers.  These sentinel values let
// higher layers distinguish failure kinds with errors.Is while the
// wrapped message carries the human-readable detail.  Handlers
// translate the kinds into HTTP responses.
package model

import "errors"

// ErrInvalidInput is returned when a creation request carries a
// malformed or missing field.  The wrapped message names the field.
// Callers recover by resubmitting corrected data; nothing is retried
// automatically.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when a referenced booking or payment does
// not exist.  Handlers should translate this into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a requested decision is
// illegal for the booking's current status and the actor's role.  It
// covers both a stale client view (the booking already moved on) and
// an unauthorised attempt; only the message distinguishes the two.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInventoryConflict is returned when a hall is already locked by
// another booking for the same date.  The caller must pick a
// different hall or date.  Handlers should translate this into an
// HTTP 409 response.
var ErrInventoryConflict = errors.New("inventory conflict")
