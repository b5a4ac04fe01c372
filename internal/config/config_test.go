package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:            "8080",
			DBPassword:      "strong-password",
			DBSSLMode:       "require",
			RedisURL:        "localhost:6379",
			SessionTTLHours: 168,
			Env:             "development",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid development", func(_ *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Zero session TTL", func(c *Config) { c.SessionTTLHours = 0 }, true},
		{"Negative session TTL", func(c *Config) { c.SessionTTLHours = -1 }, true},
		{"Valid production", func(c *Config) { c.Env = "production" }, false},
		{"Production default DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"Production SSL disabled", func(c *Config) {
			c.Env = "prod"
			c.DBSSLMode = "disable"
		}, true},
		{"Production without Redis", func(c *Config) {
			c.Env = "production"
			c.RedisURL = ""
		}, true},
		{"Development SSL disabled is fine", func(c *Config) {
			c.DBSSLMode = "disable"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
