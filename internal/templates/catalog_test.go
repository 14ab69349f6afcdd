package templates

import (
	"strings"
	"testing"
)

func TestLookupKnownKeys(t *testing.T) {
	heads := map[Key]string{
		Flowchart: "flowchart",
		Sequence:  "sequenceDiagram",
		Class:     "classDiagram",
		State:     "stateDiagram-v2",
		ER:        "erDiagram",
		Gantt:     "gantt",
		Pie:       "pie",
		Journey:   "journey",
		Git:       "gitGraph",
	}
	for key, head := range heads {
		text, ok := Lookup(key)
		if !ok {
			t.Fatalf("expected %q in catalog", key)
		}
		if !strings.HasPrefix(text, head) {
			t.Errorf("%s: got first line %q, want prefix %q", key, strings.SplitN(text, "\n", 2)[0], head)
		}
	}
}

func TestLookupUnknownKey(t *testing.T) {
	if _, ok := Lookup("mindmap"); ok {
		t.Fatalf("did not expect unknown key to resolve")
	}
	if _, ok := Lookup(""); ok {
		t.Fatalf("did not expect empty key to resolve")
	}
}

func TestKeysCoverCatalogAndTitles(t *testing.T) {
	keys := Keys()
	if len(keys) != len(catalog) {
		t.Fatalf("keys=%d catalog=%d", len(keys), len(catalog))
	}
	for _, k := range keys {
		if Titles[k] == "" {
			t.Errorf("missing title for %q", k)
		}
	}
	keys[0] = "mutated"
	if Keys()[0] != Flowchart {
		t.Fatalf("Keys must return a copy")
	}
}

func TestSortedKeys(t *testing.T) {
	sorted := SortedKeys()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Fatalf("not sorted at %d: %q > %q", i, sorted[i-1], sorted[i])
		}
	}
}
