package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("store: not found")

// Key names one persisted blob.
type Key string

// DefaultKey derives the key used for a scenario when none is configured.
func DefaultKey(scenario string) Key {
	name := strings.TrimSpace(scenario)
	if name == "" {
		name = "default"
	}
	return Key("formfill." + name + ".state")
}

// Validate rejects keys that cannot be used as a single file name.
func (k Key) Validate() error {
	switch {
	case strings.TrimSpace(string(k)) == "":
		return errors.New("store: key is empty")
	case strings.ContainsAny(string(k), `/\`) || k == "." || k == "..":
		return fmt.Errorf("store: key %q must not contain path separators", string(k))
	}
	return nil
}

// Store persists opaque blobs by key.
type Store interface {
	Load(ctx context.Context, key Key) ([]byte, error)
	Save(ctx context.Context, key Key, blob []byte) error
	Remove(ctx context.Context, key Key) error
}
