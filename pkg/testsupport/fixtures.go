package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/inputs"
)

// LoadScenario reads a scenario fixture (JSON or YAML).
func LoadScenario(t *testing.T, path string) *inputs.Scenario {
	t.Helper()

	scenario, err := inputs.LoadFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return scenario
}

// LoadDocument reads a data fixture. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func LoadDocument(t *testing.T, path string) *document.Document {
	t.Helper()

	data := MustReadGolden(t, path)
	var (
		doc *document.Document
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = document.ParseYAML(data)
	default:
		doc, err = document.Parse(data)
	}
	if err != nil {
		t.Fatalf("load document %s: %v", path, err)
	}
	return doc
}

// AssertDocument fails the test unless got holds the same value as the
// JSON text want. Key order is ignored.
func AssertDocument(t *testing.T, got *document.Document, want string) {
	t.Helper()

	expected, err := document.Parse([]byte(want))
	if err != nil {
		t.Fatalf("parse expected document: %v", err)
	}
	if !got.Equal(expected) {
		t.Fatalf("document mismatch (-want +got):\n%s", cmp.Diff(expected.Pretty(), got.Pretty()))
	}
}

// AssertGolden compares got with the golden file at path, rewriting the file
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := CompareGolden(want, string(got)); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
