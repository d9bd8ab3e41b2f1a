// Package repository defines error types that are reused across
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios without string
// matching: ErrInvalidTransition maps to a 4xx "not redeemable"
// response while ErrBookingNotFound maps to 404.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrBookingNotFound is returned when no booking matches the given id
// (or id+owner pair for customer-scoped lookups).
var ErrBookingNotFound = errors.New("booking not found")

// ErrCodeNotFound is returned by redemption when no booking carries
// the presented verification code. The match is exact and
// case-sensitive, so a mistyped code lands here rather than on a
// near-miss booking.
var ErrCodeNotFound = errors.New("verification code not found")

// ErrInvalidTransition is returned when a status change is attempted
// on a booking that is not currently 'booked'. It covers double
// cancellation, double redemption and stale admin views alike; the
// store performs no mutation in that case.
var ErrInvalidTransition = errors.New("booking is not in a transitionable state")

// ErrPackageNotFound is returned when a referenced SIM package does
// not exist or is no longer active.
var ErrPackageNotFound = errors.New("package not found")
