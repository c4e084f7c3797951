package config

import "time"

// Timeouts holds the bounded timeouts applied around blocking operations.
// These can be tuned via CLI flags for slow environments.
type Timeouts struct {
	// StoreQuery bounds connection acquisition plus statement execution for
	// a single store operation. Expiry is treated as a connection failure.
	StoreQuery time.Duration

	// HTTPRequest bounds request handling in the router. Default: 15s
	HTTPRequest time.Duration

	// ShutdownGrace bounds the HTTP server drain on shutdown. Default: 30s
	ShutdownGrace time.Duration
}

// DefaultTimeouts returns the default timeout configuration.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		StoreQuery:    5 * time.Second,
		HTTPRequest:   15 * time.Second,
		ShutdownGrace: 30 * time.Second,
	}
}
