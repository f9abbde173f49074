package uischema_test

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-postgen/pkg/uischema"
)

func TestLoadFS_ParsesYAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`
operations:
  generateContent:
    form:
      title: Hello
    fields:
      tone:
        label: Voice
        order: 2
`)},
		"nested/b.json": {Data: []byte(`{"operations":{"health":{"form":{"title":"Health"}}}}`)},
		"README.md":     {Data: []byte("ignored")},
	}

	store, err := uischema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	op, ok := store.Operation("generateContent")
	if !ok {
		t.Fatalf("generateContent missing")
	}
	if op.Form.Title != "Hello" || op.Source != "a.yaml" {
		t.Fatalf("unexpected operation: %+v", op)
	}
	tone := op.Fields["tone"]
	if tone.Label != "Voice" || tone.Order == nil || *tone.Order != 2 {
		t.Fatalf("unexpected tone config: %+v", tone)
	}
	if _, ok := store.Operation("health"); !ok {
		t.Fatalf("json operation missing")
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty file": {"a.yaml": {Data: []byte("   ")}},
		"bad yaml":   {"a.yaml": {Data: []byte("operations: [")}},
		"duplicate": {
			"a.yaml": {Data: []byte("operations:\n  x:\n    form: {title: A}\n")},
			"b.yaml": {Data: []byte("operations:\n  x:\n    form: {title: B}\n")},
		},
		"negative rows": {"a.yaml": {Data: []byte("operations:\n  x:\n    fields:\n      d: {rows: -1}\n")}},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}
