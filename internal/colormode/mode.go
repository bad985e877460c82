// Package colormode holds the dashboard's light/dark preference and persists
// it through a pluggable storage port.
package colormode

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/i474232898/ski-tracker/internal/logger"
)

// Mode is a color scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"

	// Default is used when nothing valid is stored.
	Default = Light
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "chakra-ui-color-mode"

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("invalid color mode %q", s)
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// KeyFor namespaces StorageKey for one client.
func KeyFor(clientID string) string {
	if clientID == "" {
		return StorageKey
	}
	return StorageKey + ":" + clientID
}

// Storage is a string key-value port. ok is false when the key is absent.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Context is the current mode for one client plus the way to change it. It
// is safe for concurrent use.
type Context struct {
	mu      sync.RWMutex
	mode    Mode
	key     string
	storage Storage
	log     logger.Logger
}

// Load reads the persisted mode for key. Missing or unreadable values fall
// back to Default; storage failures are logged, not returned.
func Load(ctx context.Context, storage Storage, key string, log logger.Logger) *Context {
	return LoadOr(ctx, storage, key, Default, log)
}

// LoadOr is Load with a caller-chosen fallback, such as the browser's
// preferred scheme.
func LoadOr(ctx context.Context, storage Storage, key string, fallback Mode, log logger.Logger) *Context {
	c := &Context{mode: fallback, key: key, storage: storage, log: log}

	raw, ok, err := storage.Get(ctx, key)
	switch {
	case err != nil:
		log.Warnf("color mode: read %s failed: %v", key, err)
	case !ok:
	default:
		if m, err := ParseMode(raw); err == nil {
			c.mode = m
		} else {
			log.Debugf("color mode: ignoring stored value %q", raw)
		}
	}
	return c
}

// Mode returns the current mode.
func (c *Context) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetMode switches to m and persists it. The in-memory mode changes even when
// persisting fails.
func (c *Context) SetMode(ctx context.Context, m Mode) error {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()

	if err := c.storage.Set(ctx, c.key, string(m)); err != nil {
		c.log.Warnf("color mode: write %s failed: %v", c.key, err)
		return fmt.Errorf("persist color mode: %w", err)
	}
	return nil
}

// Toggle flips the mode and returns the new one.
func (c *Context) Toggle(ctx context.Context) (Mode, error) {
	next := c.Mode().Opposite()
	return next, c.SetMode(ctx, next)
}
