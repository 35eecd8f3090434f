// Package auth persists the TheTVDB API key in the system keyring.
package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "tvdbarr"
	user    = "tvdb-api-key"
)

// ErrNoAPIKey indicates no API key is stored in the keyring.
var ErrNoAPIKey = errors.New("no API key stored in keyring")

// SetAPIKey persists the API key to the system keyring.
func SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key is empty")
	}
	return keyring.Set(service, user, key)
}

// GetAPIKey retrieves the API key from the system keyring.
func GetAPIKey() (string, error) {
	key, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoAPIKey
	}
	return key, err
}

// DeleteAPIKey removes the API key from the system keyring. Deleting a
// missing key is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// ResolveAPIKey returns configured when it is set, otherwise the keyring
// value. An unavailable keyring yields an empty key.
func ResolveAPIKey(configured string) (key string, fromKeyring bool) {
	if configured != "" {
		return configured, false
	}
	stored, err := GetAPIKey()
	if err != nil {
		return "", false
	}
	return stored, true
}
