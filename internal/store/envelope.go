package store

import (
	"fmt"
	"time"
)

// Response is the uniform envelope returned by every store operation.
// A failed response never carries Data; its Message is always non-empty.
// Use the OK/OKData/Failure constructors instead of building one by hand.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// UserRecord is one row of the users relation as exposed to callers.
type UserRecord struct {
	Username string `json:"username"`
	Host     string `json:"host"`
}

// LogRecord is one row of the audit trail. Rows are written exclusively by
// the store-side triggers; this layer only reads and prunes them.
type LogRecord struct {
	LogID      int64     `json:"log_id"`
	UserID     *int64    `json:"user_id"`
	ActionType string    `json:"action_type"`
	ActionTime time.Time `json:"action_time"`
}

// OK returns a success envelope without data.
func OK(format string, args ...any) *Response {
	return &Response{Success: true, Message: fmt.Sprintf(format, args...)}
}

// OKData returns a success envelope carrying data rows.
func OKData(data any, format string, args ...any) *Response {
	return &Response{Success: true, Message: fmt.Sprintf(format, args...), Data: data}
}

// Failure returns a failure envelope.
func Failure(format string, args ...any) *Response {
	return &Response{Success: false, Message: fmt.Sprintf(format, args...)}
}
