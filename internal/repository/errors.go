// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// admission service and the handlers to distinguish between failure
// scenarios without inspecting driver errors directly.
package repository

import "errors"

// ErrConflict is returned when an insert or delete cannot proceed because
// of conflicting state: inserting a reservation whose interval overlaps an
// active one, or deleting a table that active reservations still
// reference. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrRuleNotFound is returned when a business-hours rule lookup fails.
var ErrRuleNotFound = errors.New("business hours rule not found")
