package config

import "testing"

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   Server{Port: 8080},
			Database: Database{Host: "localhost", Port: 3306, User: "root", Name: "useradmin"},
			Timeouts: DefaultTimeouts(),
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = 0 }},
		{"bad bind address", func(c *Config) { c.Server.Bind = "not-an-ip" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db name", func(c *Config) { c.Database.Name = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
