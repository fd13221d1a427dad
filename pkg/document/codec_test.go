package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONPreservesKeyOrderAndNumbers(t *testing.T) {
	src := `{"zeta":1,"alpha":{"b":2.50,"a":[3,1e3,-0]},"mid":"x"}`
	doc := mustParse(t, src)
	if diff := cmp.Diff(src, doc.String()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRejectsTrailingData(t *testing.T) {
	if _, err := Parse([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
	if _, err := Parse([]byte(`{"a":`)); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestDocumentEmbedsInStructs(t *testing.T) {
	type envelope struct {
		Name string    `json:"name"`
		Data *Document `json:"data"`
	}
	in := envelope{Name: "demo", Data: mustParse(t, `{"b":1,"a":[true]}`)}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `{"name":"demo","data":{"b":1,"a":[true]}}`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	var out envelope
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Data.String() != in.Data.String() {
		t.Fatalf("expected %s, got %s", in.Data, out.Data)
	}
}

func TestPrettyIndents(t *testing.T) {
	doc := mustParse(t, `{"a":[1]}`)
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if got := doc.Pretty(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNumberConstructors(t *testing.T) {
	cases := map[string]Number{
		"42":    Int(42),
		"-7":    Int(-7),
		"2.0":   MustFloat(2),
		"0.25":  MustFloat(0.25),
		"1e+21": MustFloat(1e21),
		"0":     {},
	}
	for want, n := range cases {
		if got := n.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}

	for _, bad := range []string{"", "abc", "+1", "01", "1.", ".5", "NaN"} {
		if _, err := ParseNumber(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := mustParse(t, `{"zeta":1,"alpha":{"b":2.5,"list":["x",null,true]},"empty":{}}`)
	text, err := doc.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.HasPrefix(text, "zeta: 1\nalpha:\n") {
		t.Fatalf("expected key order to be kept, got:\n%s", text)
	}

	back, err := ParseYAML([]byte(text))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if diff := cmp.Diff(doc.String(), back.String()); diff != "" {
		t.Fatalf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAMLScalars(t *testing.T) {
	doc, err := ParseYAML([]byte("count: 3\nratio: 0.5\nflag: yes\nname: '12'\nnothing: ~\n"))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	assertJSON(t, doc, `{"count":3,"ratio":0.5,"flag":"yes","name":"12","nothing":null}`)
}

func TestFromAnySortsMapKeys(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{1, "two", 3.5},
		"a": map[string]int{"y": 1, "x": 2},
		"c": nil,
	})
	if err != nil {
		t.Fatalf("from any: %v", err)
	}
	if got, want := FromValue(v).String(), `{"a":{"x":2,"y":1},"b":[1,"two",3.5],"c":null}`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	back := ToAny(v)
	want := map[string]any{
		"a": map[string]any{"x": int64(2), "y": int64(1)},
		"b": []any{int64(1), "two", 3.5},
		"c": nil,
	}
	if diff := cmp.Diff(want, back); diff != "" {
		t.Fatalf("to any mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	if _, err := FromAny(map[int]string{1: "x"}); err == nil {
		t.Fatal("expected error for non-string map keys")
	}
	if _, err := FromAny(make(chan int)); err == nil {
		t.Fatal("expected error for channels")
	}
}
