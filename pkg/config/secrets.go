package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService     = "contactbook"
	keyringPasswordKey = "database-password"
)

// SetDatabasePassword stores the postgres password in the OS keyring so it
// never has to live in the config file.
func SetDatabasePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password must not be empty")
	}
	return keyring.Set(keyringService, keyringPasswordKey, password)
}

func DeleteDatabasePassword() error {
	err := keyring.Delete(keyringService, keyringPasswordKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// ResolveDatabaseURL returns the configured database URL. When the URL names a
// user without a password, the keyring password is injected if one is stored.
func (c *Config) ResolveDatabaseURL() (string, error) {
	raw := strings.TrimSpace(c.Storage.DatabaseURL)
	if raw == "" {
		return "", nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.User == nil || u.User.Username() == "" {
		return raw, nil
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return raw, nil
	}

	password, err := keyring.Get(keyringService, keyringPasswordKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return raw, nil
	}
	if err != nil {
		return "", fmt.Errorf("read database password from keyring: %w", err)
	}

	u.User = url.UserPassword(u.User.Username(), password)
	return u.String(), nil
}

// MaskDatabaseURL masks the password in a database URL for logging.
func MaskDatabaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 5 {
		return "*****" + value
	}
	return "*****" + value[len(value)-5:]
}
