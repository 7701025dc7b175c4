package glossa

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseGlossary_PreservesOrder(t *testing.T) {
	data := []byte(`{"zeta": "z", "alpha": "a", "mid": "m"}`)

	g, err := ParseGlossary(data)
	if err != nil {
		t.Fatalf("ParseGlossary() error = %v", err)
	}

	want := []string{"zeta", "alpha", "mid"}
	if !reflect.DeepEqual(g.Terms(), want) {
		t.Errorf("Terms() = %v, want %v", g.Terms(), want)
	}
}

func TestParseGlossary_Values(t *testing.T) {
	data := []byte(`{"firewall": "barreira de proteção", "port": 443, "tags": ["a", "b"], "dup": "1", "dup": "2"}`)

	g, err := ParseGlossary(data)
	if err != nil {
		t.Fatalf("ParseGlossary() error = %v", err)
	}

	tests := []struct {
		term, want string
	}{
		{"firewall", "barreira de proteção"},
		{"port", "443"},
		{"tags", `["a", "b"]`},
		{"dup", "2"},
	}
	for _, tt := range tests {
		if got, _ := g.Lookup(tt.term); got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
}

func TestParseGlossary_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"a": `},
		{"array", `["a", "b"]`},
		{"string", `"a"`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGlossary([]byte(tt.data))
			var gerr *GlossaryError
			if !errors.As(err, &gerr) {
				t.Errorf("expected *GlossaryError, got %T (%v)", err, err)
			}
		})
	}
}

func TestParseGlossary_EmptyObject(t *testing.T) {
	g, err := ParseGlossary([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseGlossary() error = %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}

func TestLoadGlossary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossario.json")
	if err := os.WriteFile(path, []byte(`{"router": "roteador"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGlossary(path)
	if err != nil {
		t.Fatalf("LoadGlossary() error = %v", err)
	}
	if v, ok := g.Lookup("router"); !ok || v != "roteador" {
		t.Errorf("Lookup(router) = %q, %v", v, ok)
	}

	_, err = LoadGlossary(filepath.Join(dir, "missing.json"))
	var gerr *GlossaryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GlossaryError, got %T", err)
	}
	if gerr.Path == "" {
		t.Error("Path should be set")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`nope`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadGlossary(bad)
	if !errors.As(err, &gerr) || gerr.Path != bad {
		t.Errorf("expected *GlossaryError with path %q, got %v", bad, err)
	}
}

func TestNewGlossary(t *testing.T) {
	g := NewGlossary(
		Entry{Term: "b", Value: "1"},
		Entry{Term: "a", Value: "2"},
		Entry{Term: "b", Value: "3"},
	)

	want := []Entry{{Term: "b", Value: "3"}, {Term: "a", Value: "2"}}
	if !reflect.DeepEqual(g.Entries(), want) {
		t.Errorf("Entries() = %v, want %v", g.Entries(), want)
	}
}

func TestGlossaryFromMap(t *testing.T) {
	g := GlossaryFromMap(map[string]string{"c": "3", "a": "1", "b": "2"})
	if !reflect.DeepEqual(g.Terms(), []string{"a", "b", "c"}) {
		t.Errorf("Terms() = %v", g.Terms())
	}
}

func TestGlossary_Nil(t *testing.T) {
	var g *Glossary
	if g.Len() != 0 || g.Terms() != nil || g.Entries() != nil {
		t.Error("nil Glossary should be empty")
	}
	if _, ok := g.Lookup("x"); ok {
		t.Error("nil Glossary Lookup should miss")
	}
}
