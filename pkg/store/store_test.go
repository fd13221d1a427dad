package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/inputs"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	files, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   files,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		key := DefaultKey("demo")
		if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
		if err := s.Save(ctx, key, []byte(`{"a":1}`)); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		if err := s.Save(ctx, key, []byte(`{"a":2}`)); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
		got, err := s.Load(ctx, key)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(got) != `{"a":2}` {
			t.Fatalf("%s: unexpected blob %s", name, got)
		}
		if err := s.Remove(ctx, key); err != nil {
			t.Fatalf("%s: remove: %v", name, err)
		}
		if err := s.Remove(ctx, key); err != nil {
			t.Fatalf("%s: second remove: %v", name, err)
		}
		if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound after remove, got %v", name, err)
		}
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		for _, key := range []Key{"", "../escape", `a\b`} {
			if err := s.Save(ctx, key, []byte("x")); err == nil {
				t.Fatalf("%s: expected %q to be rejected", name, key)
			}
		}
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range stores(t) {
		if err := s.Save(ctx, "k", nil); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", name, err)
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := s.Save(context.Background(), "k", []byte("data")); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Fatalf("expected only k.json, got %v", entries)
	}
}

func TestDefaultKey(t *testing.T) {
	if got := DefaultKey("invoice"); got != "formfill.invoice.state" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := DefaultKey(" "); got != "formfill.default.state" {
		t.Fatalf("unexpected key %q", got)
	}
}

func sampleState(t *testing.T) *State {
	t.Helper()
	scenario, err := inputs.Load([]byte(`{"name":"demo","template":"{{ a }}","inputs":[{"type":"text","key":"a","name":"A"}]}`), "demo.json")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	doc := document.New()
	if err := doc.InsertAt(fieldpath.New("a"), document.String("x")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return &State{Scenario: scenario, Data: doc}
}

func TestSaveAndLoadState(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := DefaultKey("demo")

	if _, ok := LoadState(ctx, s, key); ok {
		t.Fatalf("expected no state")
	}
	want := sampleState(t)
	if err := SaveState(ctx, s, key, want); err != nil {
		t.Fatalf("save state: %v", err)
	}
	got, ok := LoadState(ctx, s, key)
	if !ok {
		t.Fatalf("expected restored state")
	}
	if got.Data.String() != want.Data.String() {
		t.Fatalf("expected %s, got %s", want.Data, got.Data)
	}
	if got.Scenario.Template != "{{ a }}" || len(got.Scenario.Inputs) != 1 {
		t.Fatalf("unexpected scenario %+v", got.Scenario)
	}
}

func TestLoadStateDiscardsInvalidBlob(t *testing.T) {
	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))
	s := NewMemoryStore()
	key := Key("broken")

	for _, blob := range []string{`not json`, `{"data":{}}`, `{"scenario":{"template":"","inputs":[{"type":"nope"}]}}`} {
		if err := s.Save(ctx, key, []byte(blob)); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, ok := LoadState(ctx, s, key); ok {
			t.Fatalf("%s: expected invalid state to be ignored", blob)
		}
		if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected invalid blob to be removed, got %v", blob, err)
		}
	}
	if !strings.Contains(logs.String(), "discarding invalid saved state") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestDecodeStateDefaultsData(t *testing.T) {
	state, err := DecodeState([]byte(`{"scenario":{"template":"t","inputs":[]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Data == nil || state.Data.String() != "{}" {
		t.Fatalf("expected empty document, got %v", state.Data)
	}
}
