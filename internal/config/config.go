package config

import (
	"fmt"
	"net"
)

// Config is the process-wide configuration. It is built once at startup
// from flags and environment variables and never mutated afterwards.
type Config struct {
	Server   Server
	Database Database
	Timeouts Timeouts
}

// Server holds the HTTP listener settings.
type Server struct {
	Port int
	Bind string
	// AllowedNet restricts connections to a CIDR subnet when set.
	AllowedNet *net.IPNet
}

// Database holds the connection parameters for the MariaDB/MySQL server.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if c.Server.Bind != "" {
		if ip := net.ParseIP(c.Server.Bind); ip == nil {
			return fmt.Errorf("invalid bind address: %s", c.Server.Bind)
		}
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}
