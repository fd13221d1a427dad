package formfill

import (
	"log/slog"

	"github.com/goliatone/go-formfill/pkg/notify"
	"github.com/goliatone/go-formfill/pkg/render"
	"github.com/goliatone/go-formfill/pkg/store"
)

// Option customises an App.
type Option func(*App)

// WithStore persists the scenario and data after every change. Without a
// store nothing survives the process.
func WithStore(s store.Store) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithStorageKey overrides the key derived from the scenario name.
func WithStorageKey(key store.Key) Option {
	return func(a *App) {
		a.key = key
	}
}

// WithRenderer replaces the default pongo2 engine.
func WithRenderer(r render.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithBus publishes user facing notifications on bus.
func WithBus(bus *notify.Bus) Option {
	return func(a *App) {
		if bus != nil {
			a.bus = bus
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}
