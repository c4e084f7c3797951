package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
)

// errKind buckets store errors into the classes the envelope contract cares
// about. Classification happens once, here; every operation reuses it.
type errKind int

const (
	// kindConnection covers failures to reach the server, including
	// acquisition timeouts. The store was never touched.
	kindConnection errKind = iota
	// kindIdempotentConflict covers already-exists errors on create DDL.
	// Mapped to success by the schema operations.
	kindIdempotentConflict
	// kindExecution covers every other server-side error during a statement.
	kindExecution
)

// MariaDB/MySQL server error numbers this layer gives special meaning to.
const (
	errDBCreateExists = 1007 // ER_DB_CREATE_EXISTS
	errTableExists    = 1050 // ER_TABLE_EXISTS_ERROR
	errTriggerExists  = 1359 // ER_TRG_ALREADY_EXISTS
)

// classify maps an error from the driver to its kind.
func classify(err error) errKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return kindConnection
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return kindConnection
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDBCreateExists, errTableExists, errTriggerExists:
			return kindIdempotentConflict
		}
		return kindExecution
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return kindConnection
	}

	return kindExecution
}

// isIdempotentConflict reports whether err is an already-exists conflict
// that a create-if-absent operation treats as success.
func isIdempotentConflict(err error) bool {
	return classify(err) == kindIdempotentConflict
}
