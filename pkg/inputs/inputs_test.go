package inputs

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/visibility/expr"
)

func loadFixture(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return scenario
}

func TestLoadYAMLAndJSONAgree(t *testing.T) {
	fromYAML := loadFixture(t, "invoice.yaml")
	fromJSON := loadFixture(t, "invoice.json")

	if fromYAML.Name != "invoice" || fromJSON.Name != "invoice" {
		t.Fatalf("unexpected names %q / %q", fromYAML.Name, fromJSON.Name)
	}
	if len(fromYAML.Inputs) != 2 || len(fromJSON.Inputs) != 2 {
		t.Fatalf("expected two top-level inputs, got %d / %d", len(fromYAML.Inputs), len(fromJSON.Inputs))
	}

	yamlPaths := collectPaths(t, fromYAML, nil)
	jsonPaths := collectPaths(t, fromJSON, nil)
	if diff := cmp.Diff(yamlPaths, jsonPaths); diff != "" {
		t.Fatalf("path mismatch (-yaml +json):\n%s", diff)
	}
}

func TestLoadStripsMarkup(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	group, ok := scenario.Inputs[0].(GroupInput)
	if !ok {
		t.Fatalf("expected GroupInput, got %T", scenario.Inputs[0])
	}
	if got := group.Inputs[0].Meta().Name; got != "Full name" {
		t.Fatalf("expected markup stripped from name, got %q", got)
	}
	if got := group.Inputs[1].Meta().Description; got != "Tick when billing a business" {
		t.Fatalf("expected markup stripped from description, got %q", got)
	}

	fromJSON := loadFixture(t, "invoice.json")
	if got := fromJSON.Inputs[0].Meta().Name; got != "Customer" {
		t.Fatalf("expected markup stripped from group name, got %q", got)
	}
}

func TestLoadDecodesVariantFields(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	list, ok := scenario.Inputs[1].(ListInput)
	if !ok {
		t.Fatalf("expected ListInput, got %T", scenario.Inputs[1])
	}
	if list.MinLength == nil || *list.MinLength != 1 || list.MaxLength == nil || *list.MaxLength != 3 {
		t.Fatalf("unexpected bounds %v %v", list.MinLength, list.MaxLength)
	}
	qty, ok := list.Inputs[1].(NumberInput)
	if !ok {
		t.Fatalf("expected NumberInput, got %T", list.Inputs[1])
	}
	if qty.Min.String() != "1" || qty.Max.String() != "99" || qty.Step.String() != "1" {
		t.Fatalf("unexpected number bounds %s %s %s", qty.Min, qty.Max, qty.Step)
	}
	if !qty.Meta().Key.Equal(fieldpath.New("qty")) {
		t.Fatalf("unexpected key %q", qty.Meta().Key)
	}
}

func TestLoadRejectsBadScenarios(t *testing.T) {
	cases := map[string]string{
		"empty":        "  ",
		"unknown type": `{"template":"","inputs":[{"type":"slider","key":"a","name":"A"}]}`,
		"missing type": `{"template":"","inputs":[{"key":"a","name":"A"}]}`,
		"bad regex":    "template: ''\ninputs:\n  - type: text\n    key: a\n    name: A\n    validate_regex: '(['\n",
		"bad bounds":   `{"template":"","inputs":[{"type":"number","key":"a","name":"A","min":5,"max":1}]}`,
		"bad lengths":  `{"template":"","inputs":[{"type":"list","key":"a","name":"A","inputs":[],"min_length":4,"max_length":2}]}`,
		"not a list":   "template: ''\ninputs: {a: 1}\n",
	}
	for name, src := range cases {
		if _, err := Load([]byte(src), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(nil, "nil"); !errors.Is(err, ErrEmptyScenario) {
		t.Fatalf("expected ErrEmptyScenario, got %v", err)
	}
}

func TestListJSONPutsTypeFirst(t *testing.T) {
	list := List{
		BooleanInput{Info: Info{Key: fieldpath.New("ok"), Name: "OK"}},
		NumberInput{Info: Info{Key: fieldpath.New("n"), Name: "N"}, Max: ptrNumber(document.Int(3))},
	}
	raw, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"type":"boolean","key":"ok","name":"OK"},{"type":"number","key":"n","name":"N","max":3}]`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestScenarioEncodeRoundTrip(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	for _, asYAML := range []bool{false, true} {
		raw, err := scenario.Encode(asYAML)
		if err != nil {
			t.Fatalf("encode (yaml=%v): %v", asYAML, err)
		}
		back, err := Load(raw, "roundtrip")
		if err != nil {
			t.Fatalf("reload (yaml=%v): %v\n%s", asYAML, err, raw)
		}
		if diff := cmp.Diff(collectPaths(t, scenario, nil), collectPaths(t, back, nil)); diff != "" {
			t.Fatalf("round trip mismatch (yaml=%v):\n%s", asYAML, diff)
		}
		if back.Template != scenario.Template {
			t.Fatalf("template changed (yaml=%v): %q", asYAML, back.Template)
		}
	}
}

func TestWalkExpandsListElements(t *testing.T) {
	scenario := loadFixture(t, "invoice.json")
	doc, err := document.Parse([]byte(`{"lines":[{"label":"a"},{"label":"b"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := collectPaths(t, scenario, doc)
	want := []string{
		"customer", "customer.name", "customer.company", "customer.vat",
		"lines", "lines.0.label", "lines.0.qty", "lines.1.label", "lines.1.qty",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkHonoursVisibility(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	doc := document.New()
	opt := WithVisibility(expr.New(), nil)

	var hidden []string
	err := Walk(scenario.Inputs, doc, func(p fieldpath.Path, _ Input) error {
		hidden = append(hidden, p.String())
		return nil
	}, opt)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for _, p := range hidden {
		if p == "customer.vat" {
			t.Fatalf("expected vat to be hidden, got %v", hidden)
		}
	}

	if err := doc.InsertAt(fieldpath.New("customer.company"), document.Bool(true)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, ok := findVisible(t, scenario, doc, "customer.vat"); !ok {
		t.Fatalf("expected vat to be visible once company is set")
	}
}

func TestWalkSkipChildren(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	var seen []string
	err := Walk(scenario.Inputs, nil, func(p fieldpath.Path, in Input) error {
		seen = append(seen, p.String())
		if in.Type() == TypeGroup {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if diff := cmp.Diff([]string{"customer", "lines"}, seen); diff != "" {
		t.Fatalf("unexpected visit order:\n%s", diff)
	}
}

func TestFind(t *testing.T) {
	scenario := loadFixture(t, "invoice.yaml")
	doc, err := document.Parse([]byte(`{"lines":[{}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	in, ok := Find(scenario.Inputs, doc, fieldpath.New("lines.0.qty"))
	if !ok || in.Type() != TypeNumber {
		t.Fatalf("expected number input, got %v %v", in, ok)
	}
	if _, ok := Find(scenario.Inputs, doc, fieldpath.New("lines.1.qty")); ok {
		t.Fatalf("expected missing list element to resolve nothing")
	}
}

func TestLoadFS(t *testing.T) {
	scenario, err := LoadFS(os.DirFS("testdata"), "invoice.json")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if scenario.Name != "invoice" {
		t.Fatalf("unexpected name %q", scenario.Name)
	}
}

func collectPaths(t *testing.T, scenario *Scenario, doc *document.Document) []string {
	t.Helper()
	var out []string
	err := Walk(scenario.Inputs, doc, func(p fieldpath.Path, _ Input) error {
		out = append(out, p.String())
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return out
}

func findVisible(t *testing.T, scenario *Scenario, doc *document.Document, path string) (Input, bool) {
	t.Helper()
	var match Input
	err := Walk(scenario.Inputs, doc, func(p fieldpath.Path, in Input) error {
		if p.String() == path {
			match = in
		}
		return nil
	}, WithVisibility(expr.New(), nil))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return match, match != nil
}

func ptrNumber(n document.Number) *document.Number { return &n }
