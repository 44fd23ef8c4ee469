package providers

import (
	"testing"
	"time"
	"trustive/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: structures.StorageConfig{
			Driver:       "file",
			FilePath:     "/tmp/trustive.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Auth: structures.AuthConfig{
			JWTSecret: "0123456789abcdef",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_Storage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *structures.Config)
		wantErr bool
	}{
		{"memory needs nothing", func(c *structures.Config) {
			c.Storage = structures.StorageConfig{Driver: "memory"}
		}, false},
		{"unknown driver", func(c *structures.Config) { c.Storage.Driver = "redis" }, true},
		{"missing driver", func(c *structures.Config) { c.Storage.Driver = "" }, true},
		{"file without path", func(c *structures.Config) { c.Storage.FilePath = "" }, true},
		{"file without interval", func(c *structures.Config) { c.Storage.SaveInterval = 0 }, true},
		{"postgres without dsn", func(c *structures.Config) {
			c.Storage = structures.StorageConfig{Driver: "postgres"}
		}, true},
		{"postgres with dsn", func(c *structures.Config) {
			c.Storage = structures.StorageConfig{Driver: "postgres", DSN: "postgres://localhost/trustive"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := NewCnfValidator(c).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidator_ShortSecret(t *testing.T) {
	c := validConfig()
	c.Auth.JWTSecret = "short"
	assert.Error(t, NewCnfValidator(c).Validate())
}
