// Package repository contains the data access layer.  Each repository
// wraps a *sql.DB handle; methods suffixed Tx participate in a caller
// supplied transaction so several repositories can share one unit of
// work.  Sentinel errors defined here are reused across repositories
// and translated into HTTP responses by the handler layer.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed
// because of dependent state, such as removing a port that still has
// non-terminal bookings.  Handlers translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
