package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelsSource = `package models

// User is a registered account.
// @Entity
// @Table(name=users)
type User struct {
	// @Id
	// @Column(type=integer)
	ID int

	// @Column(type=string, length=255, unique)
	Email string
}

// @Column(=broken)
type Legacy struct{}
`

func writePackage(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte(modelsSource), 0644))
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "-help")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "Doc Comment Annotation Reader")
	assert.Contains(t, stderr, "-strict")
	assert.Contains(t, stderr, "-framework")
}

func TestRun_ArgumentErrors(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		code, _, stderr := runCLI(t)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "at least one directory path is required")
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		code, _, stderr := runCLI(t, "/nonexistent/directory")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "read directory")
	})

	t.Run("bad strip mode", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-strip", "sideways", writePackage(t))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "invalid strip")
	})

	t.Run("property without type", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-property", "Email", writePackage(t))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "-property requires -type")
	})

	t.Run("unknown flag", func(t *testing.T) {
		code, _, _ := runCLI(t, "-bogus")
		assert.Equal(t, 2, code)
	})
}

func TestRun_JSONReport(t *testing.T) {
	dir := writePackage(t)

	code, stdout, _ := runCLI(t, "-quiet", "-format", "json", "-type", "User", dir)
	require.Equal(t, 0, code)

	var report struct {
		Types []struct {
			Name       string                            `json:"name"`
			Package    string                            `json:"package"`
			Class      map[string]interface{}            `json:"class"`
			Properties map[string]map[string]interface{} `json:"properties"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), stdout)
	require.Len(t, report.Types, 1)

	user := report.Types[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "models", user.Package)
	assert.Equal(t, "Entity", user.Class["1"])
	assert.Equal(t, map[string]interface{}{"name": "users"}, user.Class["table"])

	assert.Equal(t, "Id", user.Properties["ID"]["0"])
	assert.Equal(t, map[string]interface{}{"type": "integer"}, user.Properties["ID"]["column"])
	assert.Equal(t, map[string]interface{}{
		"type":   "string",
		"length": "255",
		"0":      "unique",
	}, user.Properties["Email"]["column"])
}

func TestRun_TextReport(t *testing.T) {
	dir := writePackage(t)

	code, stdout, _ := runCLI(t, "-quiet", "-trim-decoration", dir)
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "models.User")
	assert.Contains(t, stdout, "@table(name=users)")
	assert.Contains(t, stdout, "User is a registered account.")
	assert.Contains(t, stdout, "  .Email")
	assert.Contains(t, stdout, "@column(type=string, length=255, unique)")
}

func TestRun_StrictModeFailsOnMalformedAnnotations(t *testing.T) {
	dir := writePackage(t)

	code, stdout, _ := runCLI(t, "-quiet", "-strict", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "models.User")
	assert.Contains(t, stdout, "empty key")
}

func TestRun_UnknownType(t *testing.T) {
	code, _, stderr := runCLI(t, "-type", "Missing", writePackage(t))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing")
}
