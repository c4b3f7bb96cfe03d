package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        tt.env,
				DBSSLMode:  tt.sslMode,
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "secure-password",
				Port:       "8080",
				RedisURL:   "redis://localhost:6379",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRequiredFields(t *testing.T) {
	c := &Config{JWTSecret: "x"}
	assert.Error(t, c.Validate(), "missing PORT must fail validation")

	c = &Config{Port: "8080"}
	assert.Error(t, c.Validate(), "missing JWT_SECRET must fail validation")
}

func TestConfig_ProductionRejectsDefaultSecret(t *testing.T) {
	c := &Config{
		Env:        "production",
		Port:       "8080",
		JWTSecret:  "your-secret-key-change-in-production",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
	}
	assert.Error(t, c.Validate())
}
