package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry[int]()

	if err := registry.Register("b", 2); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	registry.MustRegister("a", 1)

	value, exists := registry.Get("a")
	if !exists || value != 1 {
		t.Errorf("expected a=1, got %d (exists=%v)", value, exists)
	}
	if !registry.Has("b") || registry.Has("c") {
		t.Error("unexpected Has result")
	}
	if strings.Join(registry.Names(), ",") != "a,b" {
		t.Errorf("expected sorted names, got %v", registry.Names())
	}
	if registry.Size() != 2 {
		t.Errorf("expected size 2, got %d", registry.Size())
	}
}

func TestRegistry_Rejects(t *testing.T) {
	registry := NewRegistry[string]()
	registry.MustRegister("gin", "Gin")

	if err := registry.Register("gin", "again"); err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if err := registry.Register("", "nameless"); err == nil {
		t.Error("expected empty name to be rejected")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustRegister to panic on duplicates")
		}
	}()
	registry.MustRegister("gin", "again")
}

func TestRegistry_Concurrent(t *testing.T) {
	registry := NewRegistry[int]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = registry.Register(string(rune('a'+i)), i)
			registry.Names()
		}(i)
	}
	wg.Wait()

	if registry.Size() != 20 {
		t.Errorf("expected 20 items, got %d", registry.Size())
	}
}
