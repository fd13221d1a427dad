package document

import (
	"sync"
	"testing"

	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

func TestApplyPatch(t *testing.T) {
	doc := mustParse(t, `{"name":"a","list":[1,2]}`)
	patch := `[
		{"op":"replace","path":"/name","value":"b"},
		{"op":"add","path":"/list/-","value":3},
		{"op":"remove","path":"/list/0"}
	]`
	if err := doc.ApplyPatch([]byte(patch)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := mustParse(t, `{"name":"b","list":[2,3]}`)
	if !doc.Equal(want) {
		t.Fatalf("expected %s, got %s", want, doc)
	}
}

func TestApplyPatchFailureLeavesDocument(t *testing.T) {
	doc := mustParse(t, `{"name":"a"}`)
	patch := `[
		{"op":"replace","path":"/name","value":"b"},
		{"op":"test","path":"/name","value":"nope"}
	]`
	if err := doc.ApplyPatch([]byte(patch)); err == nil {
		t.Fatal("expected failing test op")
	}
	assertJSON(t, doc, `{"name":"a"}`)

	if err := doc.ApplyPatch([]byte(`{"op":"add"}`)); err == nil {
		t.Fatal("expected malformed patch error")
	}
}

func TestMergePatch(t *testing.T) {
	doc := mustParse(t, `{"a":1,"b":{"c":2,"d":3}}`)
	if err := doc.MergePatch([]byte(`{"a":null,"b":{"c":5}}`)); err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := mustParse(t, `{"b":{"c":5,"d":3}}`)
	if !doc.Equal(want) {
		t.Fatalf("expected %s, got %s", want, doc)
	}
}

func TestLockedConcurrentInserts(t *testing.T) {
	locked := NewLocked(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := locked.InsertAt(fieldpath.New("items").Join(fieldpath.Index(i)), Int(int64(i))); err != nil {
				t.Errorf("insert %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	items, ok := locked.GetAt(fieldpath.New("items"))
	if !ok {
		t.Fatal("expected items")
	}
	arr := items.(*Array)
	if arr.Len() != 16 {
		t.Fatalf("expected 16 items, got %d", arr.Len())
	}
	for i := 0; i < arr.Len(); i++ {
		got, _ := arr.At(i)
		if !Equal(got, Int(int64(i))) {
			t.Fatalf("index %d: expected %d, got %v", i, i, got)
		}
	}
}

func TestLockedViewAndSnapshot(t *testing.T) {
	locked := NewLocked(mustParse(t, `{"a":[1,2,3]}`))
	if err := locked.ResizeArrayAt(fieldpath.New("a"), 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if _, ok, err := locked.RemoveAt(fieldpath.New("a.0")); err != nil || !ok {
		t.Fatalf("remove: %v %v", ok, err)
	}
	snap := locked.Snapshot()
	err := locked.View(func(doc *Document) error {
		return doc.InsertAt(fieldpath.New("b"), Bool(true))
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertJSON(t, snap, `{"a":[2]}`)
	assertJSON(t, locked.Snapshot(), `{"a":[2],"b":true}`)
}
