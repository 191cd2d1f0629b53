// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. Missing rows are reported as sql.ErrNoRows, which
// ownership-scoped queries use deliberately: a booking that exists
// but belongs to someone else is indistinguishable from one that
// does not exist.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when registering an email address that
// is already taken. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCapacityFull is returned when reserving a spot on a class or
// event whose booked_spots has reached max_spots. Handlers
// translate this into HTTP 409.
var ErrCapacityFull = errors.New("no spots available")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a class
// that still has bookings. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isMySQLErr reports whether err is a MySQL server error with the
// given code (1062 duplicate entry, 1451 row referenced by a foreign
// key).
func isMySQLErr(err error, code uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == code
}
