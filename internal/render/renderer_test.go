package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type blankError struct{}

func (blankError) Error() string { return "" }

func TestErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured message", &RenderError{Message: "Parse error on line 2", Err: errors.New("exit status 1")}, "Parse error on line 2"},
		{"wrapped structured", fmt.Errorf("render: %w", &RenderError{Message: "bad arrow"}), "bad arrow"},
		{"string fallback", errors.New("connection refused"), "connection refused"},
		{"render error without message", &RenderError{Err: errors.New("timeout")}, "timeout"},
		{"blank error", blankError{}, unknownMessage},
		{"nil", nil, unknownMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		if !strings.HasPrefix(id, IDPrefix) {
			t.Fatalf("missing prefix: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewSelectsBackend(t *testing.T) {
	b, err := New(Options{Backend: BackendHTTP, URL: "http://example.test/"}, nil)
	if err != nil {
		t.Fatalf("New(http): %v", err)
	}
	if b.Name() != "http:http://example.test" {
		t.Fatalf("unexpected name %q", b.Name())
	}
	b, err = New(Options{}, nil)
	if err != nil || b.Name() != "cli:mmdc" {
		t.Fatalf("expected default cli backend, got %v %v", b, err)
	}
	if _, err := New(Options{Backend: "wasm"}, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
