package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want errKind
	}{
		{"db already exists", &mysql.MySQLError{Number: 1007, Message: "Can't create database"}, kindIdempotentConflict},
		{"table already exists", &mysql.MySQLError{Number: 1050, Message: "Table 'logs' already exists"}, kindIdempotentConflict},
		{"trigger already exists", &mysql.MySQLError{Number: 1359, Message: "Trigger already exists"}, kindIdempotentConflict},
		{"duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"}, kindExecution},
		{"syntax error", &mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}, kindExecution},
		{"deadline exceeded", context.DeadlineExceeded, kindConnection},
		{"cancelled", context.Canceled, kindConnection},
		{"invalid conn", mysql.ErrInvalidConn, kindConnection},
		{"network error", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, kindConnection},
		{"plain error", errors.New("something broke"), kindExecution},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.err); got != tc.want {
				t.Fatalf("classify(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassify_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("statement failed: %w", &mysql.MySQLError{Number: 1050, Message: "exists"})
	if !isIdempotentConflict(wrapped) {
		t.Fatal("expected wrapped already-exists error to classify as idempotent conflict")
	}
}
