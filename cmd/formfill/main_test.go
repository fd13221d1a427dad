package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/inputs"
	"github.com/goliatone/go-formfill/pkg/session"
	"github.com/goliatone/go-formfill/pkg/testsupport"
)

var invoiceScenario = filepath.Join("..", "..", "pkg", "inputs", "testdata", "invoice.yaml")

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
}

func (s *stubDriver) Input(_ context.Context, _ session.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ session.ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ session.SelectConfig) (int, error) {
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) Info(context.Context, string) error { return nil }

type harness struct {
	t        *testing.T
	stateDir string
	driver   session.PromptDriver
	stdin    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, stateDir: t.TempDir()}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	c := &cli{
		stdin:  strings.NewReader(h.stdin),
		stdout: &stdout,
		stderr: &stderr,
		driver: h.driver,
	}
	cmd := c.root()
	cmd.SetArgs(append([]string{"--state-dir", h.stateDir, "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, stderr, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v\nstderr: %s", args, err, stderr)
	}
	return out
}

func TestEditRenderAndRestore(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer.name", "Ada")
	h.mustRun("--scenario", invoiceScenario, "resize", "lines", "1")
	h.mustRun("--scenario", invoiceScenario, "set", "lines.0.label", "Widget")
	h.mustRun("--scenario", invoiceScenario, "set", "--json", "lines.0.qty", "2")

	want := "Invoice for Ada\n- Widget x2\n\n"
	if got := h.mustRun("--scenario", invoiceScenario, "render"); got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
	// The saved scenario is used when none is given.
	if got := h.mustRun("render"); got != want {
		t.Fatalf("restored render = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(h.stateDir, "formfill.invoice.state.json")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
}

func TestGet(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer.name", "Ada")

	if got := h.mustRun("get", "customer.name"); got != "\"Ada\"\n" {
		t.Fatalf("get = %q", got)
	}
	if got := h.mustRun("get", "--raw", "customer.name"); got != "Ada\n" {
		t.Fatalf("get --raw = %q", got)
	}
	if _, _, err := h.run("get", "customer.missing"); err == nil {
		t.Fatalf("expected error for a missing path")
	}
}

func TestSetThroughScalarFails(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer", "flat")

	_, stderr, err := h.run("set", "customer.name", "Ada")
	if !errors.Is(err, document.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if !strings.Contains(stderr, "[error]") {
		t.Fatalf("expected the error notification on stderr, got %q", stderr)
	}
}

func TestResizeRemoveAndExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "resize", "lines", "3")
	h.mustRun("set", "lines.2.label", "C")
	h.mustRun("rm", "lines.0")

	out := h.mustRun("export")
	doc, err := document.Parse([]byte(out))
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	testsupport.AssertDocument(t, doc, `{"lines":[{},{"label":"C"}]}`)

	if got := h.mustRun("export", "--yaml"); !strings.HasPrefix(got, "lines:\n") {
		t.Fatalf("unexpected yaml export %q", got)
	}
	if _, _, err := h.run("resize", "lines", "many"); err == nil {
		t.Fatalf("expected error for a non-numeric length")
	}
}

func TestPatchAndReset(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer.name", "Ada")

	patch := filepath.Join(t.TempDir(), "patch.json")
	if err := os.WriteFile(patch, []byte(`[{"op":"replace","path":"/customer/name","value":"Bo"}]`), 0o644); err != nil {
		t.Fatalf("write patch: %v", err)
	}
	h.mustRun("patch", patch)

	h.stdin = `{"customer":{"company":true}}`
	h.mustRun("patch", "--merge", "-")
	h.stdin = ""

	doc, err := document.Parse([]byte(h.mustRun("export")))
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	testsupport.AssertDocument(t, doc, `{"customer":{"name":"Bo","company":true}}`)

	h.mustRun("reset")
	if got := h.mustRun("export"); got != "{}\n" {
		t.Fatalf("export after reset = %q", got)
	}
}

func TestRenderDiff(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer.name", "Ada")

	first := h.mustRun("render", "--diff")
	if !strings.HasPrefix(first, "+ Invoice for Ada\n") {
		t.Fatalf("first diff should add every line, got %q", first)
	}
	if got := h.mustRun("render", "--diff"); got != "" {
		t.Fatalf("unchanged render should have an empty diff, got %q", got)
	}

	h.mustRun("set", "customer.name", "Bo")
	got := h.mustRun("render", "--diff")
	if !strings.Contains(got, "- Invoice for Ada\n") || !strings.Contains(got, "+ Invoice for Bo\n") {
		t.Fatalf("unexpected diff %q", got)
	}
}

func TestScenarioChangeStartsOver(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--scenario", invoiceScenario, "set", "customer.name", "Ada")

	changed := filepath.Join(t.TempDir(), "invoice.yaml")
	scenario := testsupport.LoadScenario(t, invoiceScenario)
	scenario.Template = "Bill {{ customer.name }}"
	encoded, err := scenario.Encode(true)
	if err != nil {
		t.Fatalf("encode scenario: %v", err)
	}
	if err := os.WriteFile(changed, encoded, 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	if got := h.mustRun("--scenario", changed, "render"); got != "Bill " {
		t.Fatalf("render after scenario change = %q", got)
	}
}

func TestFill(t *testing.T) {
	h := newHarness(t)
	h.driver = &stubDriver{
		inputs:    []string{"Ada", "Widget", "2"},
		confirm:   []bool{false},
		selectIdx: []int{0, 2},
	}
	out := h.mustRun("--scenario", invoiceScenario, "fill")
	if out != "Invoice for Ada\n- Widget x2\n\n" {
		t.Fatalf("fill output = %q", out)
	}
}

func TestFillAbortKeepsAnswers(t *testing.T) {
	h := newHarness(t)
	h.driver = abortAfter{inputs: &stubDriver{inputs: []string{"Ada"}}}
	if _, _, err := h.run("--scenario", invoiceScenario, "fill"); err != nil {
		t.Fatalf("abort should not be an error: %v", err)
	}
	h.driver = nil
	if got := h.mustRun("get", "--raw", "customer.name"); got != "Ada\n" {
		t.Fatalf("answer lost after abort: %q", got)
	}
}

// abortAfter answers scripted inputs then interrupts.
type abortAfter struct {
	inputs *stubDriver
}

func (a abortAfter) Input(ctx context.Context, cfg session.InputConfig) (string, error) {
	if len(a.inputs.inputs) == 0 {
		return "", session.ErrAborted
	}
	return a.inputs.Input(ctx, cfg)
}

func (a abortAfter) Confirm(context.Context, session.ConfirmConfig) (bool, error) {
	return false, session.ErrAborted
}

func (a abortAfter) Select(context.Context, session.SelectConfig) (int, error) {
	return 0, session.ErrAborted
}

func (a abortAfter) Info(context.Context, string) error { return nil }

func TestImportOpenAPI(t *testing.T) {
	h := newHarness(t)
	spec := filepath.Join("..", "..", "internal", "openapi", "testdata", "store.yaml")

	if got := h.mustRun("import-openapi", spec); got != "Customer\nLine\nNode\nOrder\n" {
		t.Fatalf("schema list = %q", got)
	}

	out := h.mustRun("import-openapi", spec, "Line")
	scenario, err := inputs.Load([]byte(out), "line.json")
	if err != nil {
		t.Fatalf("load imported scenario: %v", err)
	}
	if scenario.Name != "Line" || len(scenario.Inputs) != 2 {
		t.Fatalf("unexpected scenario %+v", scenario)
	}
}

func TestMissingScenario(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("render"); err == nil || !strings.Contains(err.Error(), "--scenario") {
		t.Fatalf("expected a hint about --scenario, got %v", err)
	}
}
