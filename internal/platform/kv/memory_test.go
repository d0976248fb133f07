package kv_test

import (
	"context"
	"testing"

	"github.com/taskflow-hq/taskflow/internal/platform/kv"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory(map[string][]byte{"a": []byte("seeded")})

	if got := string(backend.Get(ctx, "a", nil)); got != "seeded" {
		t.Fatalf("seeded key = %q", got)
	}
	if got := backend.Get(ctx, "missing", []byte("fallback")); string(got) != "fallback" {
		t.Fatalf("missing key = %q", got)
	}

	backend.Set(ctx, "a", []byte("updated"))
	if got := string(backend.Get(ctx, "a", nil)); got != "updated" {
		t.Fatalf("after set = %q", got)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	seed := []byte("original")
	backend := kv.NewMemory(map[string][]byte{"a": seed})

	got := backend.Get(ctx, "a", nil)
	got[0] = 'X'
	if string(backend.Get(ctx, "a", nil)) != "original" {
		t.Fatal("stored value must not share memory with callers")
	}
}
