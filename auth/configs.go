package auth

import "context"

// Default endpoint paths and storage key.
const (
	DefaultLoginPath    = "/auth/login"
	DefaultRegisterPath = "/auth/register"
	DefaultStorageKey   = "auth_token"
)

// Config configures the Service and its FileStore.
type Config struct {
	// LoginPath and RegisterPath are relative to the HTTP client's base URL.
	LoginPath    string
	RegisterPath string

	// StorageKey names the token file inside StorageDir.
	StorageKey string

	// StorageDir holds the token file. Empty means the user config directory
	// joined with "tracewire".
	StorageDir string
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
	if c.RegisterPath == "" {
		c.RegisterPath = DefaultRegisterPath
	}
	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}
	return c
}

// Logger is the subset of logger.Logger used by the auth service.
type Logger interface {
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
