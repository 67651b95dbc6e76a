package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":                 "module example.com/app\n\ngo 1.22\n",
		"main.go":                "package main\n",
		"internal/models/m.go":   "package models\n",
		"internal/services/s.go": "package services\n",
		"internal/empty/README":  "nothing here",
		"vendor/dep/dep.go":      "package dep\n",
	})
	models := filepath.Join(root, "internal", "models")
	services := filepath.Join(root, "internal", "services")

	scanner := NewDirectoryScanner(nil)

	t.Run("explicit directories", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{models, services, models})
		require.NoError(t, err)
		assert.Equal(t, []string{models, services}, dirs)
	})

	t.Run("recursive pattern", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{filepath.Join(root, "internal") + "/..."})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{models, services}, dirs)
	})

	t.Run("explicit and recursive are deduplicated", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{models, root + "/..."})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{root, models, services}, dirs)
		assert.Equal(t, models, dirs[0])
	})

	t.Run("directory without Go files", func(t *testing.T) {
		_, err := scanner.ScanDirectories([]string{filepath.Join(root, "internal", "empty")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no Go files found")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := scanner.ScanDirectories([]string{filepath.Join(root, "missing")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read directory")
	})
}
