package formfill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/inputs"
	"github.com/goliatone/go-formfill/pkg/notify"
	"github.com/goliatone/go-formfill/pkg/render"
	"github.com/goliatone/go-formfill/pkg/store"
)

var (
	// ErrNoScenario is returned by Open when nothing was saved and no
	// scenario was given.
	ErrNoScenario = errors.New("formfill: no scenario")
	// ErrNotOpen is returned by operations called before Open.
	ErrNotOpen = errors.New("formfill: app is not open")
)

// App ties a scenario, the document being filled, the template renderer and
// the persistence store together. Every successful change is saved and
// re-rendered; failures are reported on the notification bus and returned.
type App struct {
	mu       sync.Mutex
	initial  *inputs.Scenario
	scenario *inputs.Scenario
	doc      *document.Locked
	renderer render.Renderer
	store    store.Store
	key      store.Key
	bus      *notify.Bus
	logger   *slog.Logger
}

// New prepares an App for scenario. scenario may be nil when the state is
// expected to be restored from the store.
func New(scenario *inputs.Scenario, options ...Option) (*App, error) {
	app := &App{
		initial: scenario,
		bus:     notify.NewBus(),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(app)
		}
	}
	if app.renderer == nil {
		engine, err := render.New()
		if err != nil {
			return nil, fmt.Errorf("formfill: renderer: %w", err)
		}
		app.renderer = engine
	}
	if app.key == "" {
		name := ""
		if scenario != nil {
			name = scenario.Name
		}
		app.key = store.DefaultKey(name)
	}
	if err := app.key.Validate(); err != nil {
		return nil, fmt.Errorf("formfill: %w", err)
	}
	return app, nil
}

// Bus returns the notification bus.
func (a *App) Bus() *notify.Bus { return a.bus }

// Key returns the storage key.
func (a *App) Key() store.Key { return a.key }

// Open restores the saved scenario and data. When nothing usable was saved,
// or the saved template no longer compiles, the scenario given to New is
// loaded with empty data.
func (a *App) Open(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		if state, ok := store.LoadState(ctx, a.store, a.key); ok {
			err := a.renderer.SetTemplate(state.Scenario.Template)
			if err == nil {
				a.scenario = state.Scenario
				a.doc = document.NewLocked(state.Data)
				logger.Info("restored session", "scenario", state.Scenario.Name)
				a.refresh(ctx)
				return nil
			}
			logger.Warn("saved template does not compile", "error", err)
			a.notify(notify.Warning, "Saved scenario is invalid, starting over: %v", err)
			if rmErr := a.store.Remove(ctx, a.key); rmErr != nil && !errors.Is(rmErr, store.ErrNotFound) {
				logger.Error("remove saved state", "error", rmErr)
			}
		}
	}

	if a.initial == nil {
		return ErrNoScenario
	}
	return a.load(ctx, a.initial)
}

// LoadScenario switches to scenario and clears the data.
func (a *App) LoadScenario(ctx context.Context, scenario *inputs.Scenario) error {
	if scenario == nil {
		return ErrNoScenario
	}
	ctx = a.withLogger(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(ctx, scenario)
}

// Reset reloads the scenario given to New, or the current one, with empty
// data.
func (a *App) Reset(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	scenario := a.initial
	if scenario == nil {
		scenario = a.scenario
	}
	if scenario == nil {
		return ErrNoScenario
	}
	return a.load(ctx, scenario)
}

func (a *App) load(ctx context.Context, scenario *inputs.Scenario) error {
	if err := a.renderer.SetTemplate(scenario.Template); err != nil {
		a.notify(notify.Error, "Failed to load the scenario: %v", err)
		return fmt.Errorf("formfill: load scenario %q: %w", scenario.Name, err)
	}
	a.scenario = scenario
	a.doc = document.NewLocked(nil)
	a.notify(notify.Info, "Loaded scenario %s", displayName(scenario))
	a.refresh(ctx)
	return nil
}

// Scenario returns the active scenario.
func (a *App) Scenario() *inputs.Scenario {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scenario
}

// Document returns a copy of the current data.
func (a *App) Document() *document.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return document.New()
	}
	return a.doc.Snapshot()
}

// Get returns a copy of the value at path.
func (a *App) Get(path fieldpath.Path) (document.Value, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, false
	}
	return a.doc.GetAt(path)
}

// Edit stores value at path.
func (a *App) Edit(ctx context.Context, path fieldpath.Path, value document.Value) error {
	return a.change(ctx, "edit", path, func(doc *document.Locked) error {
		return doc.InsertAt(path, value)
	})
}

// Resize sets the length of the array at path.
func (a *App) Resize(ctx context.Context, path fieldpath.Path, n int) error {
	return a.change(ctx, "resize", path, func(doc *document.Locked) error {
		return doc.ResizeArrayAt(path, n)
	})
}

// Remove deletes the value at path. Removing something that is not there is
// not an error.
func (a *App) Remove(ctx context.Context, path fieldpath.Path) error {
	return a.change(ctx, "remove", path, func(doc *document.Locked) error {
		_, _, err := doc.RemoveAt(path)
		return err
	})
}

// Patch applies an RFC 6902 JSON patch.
func (a *App) Patch(ctx context.Context, raw []byte) error {
	return a.change(ctx, "patch", fieldpath.Root(), func(doc *document.Locked) error {
		return doc.View(func(d *document.Document) error {
			return d.ApplyPatch(raw)
		})
	})
}

// Merge applies an RFC 7396 JSON merge patch.
func (a *App) Merge(ctx context.Context, raw []byte) error {
	return a.change(ctx, "merge", fieldpath.Root(), func(doc *document.Locked) error {
		return doc.View(func(d *document.Document) error {
			return d.MergePatch(raw)
		})
	})
}

func (a *App) change(ctx context.Context, op string, path fieldpath.Path, fn func(*document.Locked) error) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx).With("op", op, "path", path.String())

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return ErrNotOpen
	}
	if err := fn(a.doc); err != nil {
		logger.Debug("change rejected", "error", err)
		a.notify(notify.Error, "%v", err)
		return err
	}
	logger.Debug("change applied")
	a.refresh(ctx)
	return nil
}

// refresh re-renders to surface template errors and persists the state.
func (a *App) refresh(ctx context.Context) {
	if _, err := a.render(); err != nil {
		a.notify(notify.Error, "Failed to render the data: %v", err)
	}
	if err := a.save(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("save state", "error", err)
		a.notify(notify.Warning, "Failed to save: %v", err)
	}
}

// Render executes the scenario template with the current data.
func (a *App) Render() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.render()
}

func (a *App) render() (string, error) {
	if a.doc == nil {
		return "", ErrNotOpen
	}
	var out string
	err := a.doc.View(func(d *document.Document) error {
		var renderErr error
		out, renderErr = a.renderer.Render(d.Root())
		return renderErr
	})
	return out, err
}

// Save persists the state immediately.
func (a *App) Save(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.save(ctx)
}

func (a *App) save(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	if a.doc == nil || a.scenario == nil {
		return ErrNotOpen
	}
	return store.SaveState(ctx, a.store, a.key, &store.State{
		Scenario: a.scenario,
		Data:     a.doc.Snapshot(),
	})
}

// Export encodes the data as indented JSON, or YAML when asYAML is set.
func (a *App) Export(asYAML bool) ([]byte, error) {
	doc := a.Document()
	if asYAML {
		out, err := doc.YAML()
		return []byte(out), err
	}
	var buf bytes.Buffer
	buf.WriteString(doc.Pretty())
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (a *App) notify(level notify.Level, format string, args ...any) {
	a.bus.Publish(notify.New(level, format, args...))
}

func (a *App) withLogger(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxlog.WithLogger(ctx, a.logger)
}

func displayName(s *inputs.Scenario) string {
	if s.Name != "" {
		return s.Name
	}
	return "(unnamed)"
}
