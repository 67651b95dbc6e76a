package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGoModParser_ResolveModule(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":               "module example.com/shop\n\ngo 1.22\n",
		"internal/models/m.go":  "package models",
	})

	parser := NewGoModParser(NewFileReader())
	info, err := parser.ResolveModule(filepath.Join(root, "internal", "models"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if info.Path != "example.com/shop" {
		t.Errorf("expected module example.com/shop, got %s", info.Path)
	}
	if info.Root != root {
		t.Errorf("expected root %s, got %s", root, info.Root)
	}
	if info.Version != "1.22" {
		t.Errorf("expected go 1.22, got %s", info.Version)
	}

	name, err := parser.ParseModuleName(info.GoMod)
	if err != nil || name != "example.com/shop" {
		t.Errorf("ParseModuleName returned %q, %v", name, err)
	}
}

func TestModuleInfo_ImportPath(t *testing.T) {
	root := t.TempDir()
	info := &ModuleInfo{Path: "example.com/shop", Root: root}

	tests := []struct {
		dir     string
		want    string
		wantErr bool
	}{
		{root, "example.com/shop", false},
		{filepath.Join(root, "internal", "models"), "example.com/shop/internal/models", false},
		{filepath.Dir(root), "", true},
	}

	for _, tt := range tests {
		got, err := info.ImportPath(tt.dir)
		if (err != nil) != tt.wantErr {
			t.Errorf("ImportPath(%s) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ImportPath(%s) = %s, want %s", tt.dir, got, tt.want)
		}
	}
}

func TestGoModParser_Errors(t *testing.T) {
	parser := NewGoModParser(NewFileReader())

	if _, err := parser.ParseModuleName("/tmp/not-a-mod.txt"); err == nil {
		t.Error("expected error for non go.mod path")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"go.mod": "go 1.22\n"})
	if _, err := parser.ResolveModule(root); err == nil || !strings.Contains(err.Error(), "no module declaration") {
		t.Errorf("expected missing module error, got %v", err)
	}
}
