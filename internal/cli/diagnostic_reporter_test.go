package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/docanno/internal/errors"
)

func TestDiagnosticReporter_ReportError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		NewDiagnosticReporter(&buf, false, false).ReportError(fmt.Errorf("boom"))

		assert.Contains(t, buf.String(), "ERROR: Error")
		assert.Contains(t, buf.String(), "Message: boom")
	})

	t.Run("docanno error with hints", func(t *testing.T) {
		var buf bytes.Buffer
		err := errors.NewSyntaxError("empty argument", "Column(,)", errors.SourceLocation{File: "m.go", Line: 3}).
			WithHint("remove the extra comma")
		NewDiagnosticReporter(&buf, false, false).ReportError(err)

		out := buf.String()
		assert.Contains(t, out, "ERROR: SyntaxError")
		assert.Contains(t, out, "Message: m.go:3: empty argument")
		assert.Contains(t, out, "hint: remove the extra comma")
		assert.NotContains(t, out, "Context:")
	})

	t.Run("verbose shows context and cause", func(t *testing.T) {
		var buf bytes.Buffer
		err := errors.WrapFileSystemError("read directory", "/nope", fmt.Errorf("no such file"))
		NewDiagnosticReporter(&buf, true, false).ReportError(fmt.Errorf("loading: %w", err))

		out := buf.String()
		assert.Contains(t, out, "ERROR: FileSystemError")
		assert.Contains(t, out, "Underlying cause: no such file")
		assert.Contains(t, out, "Context:\n   Operation: read directory\n   Path: /nope\n")
	})

	t.Run("multiple errors", func(t *testing.T) {
		var buf bytes.Buffer
		multi := errors.NewMultipleErrors()
		multi.Add(errors.NewSyntaxError("first", "", errors.SourceLocation{Line: 1}))
		multi.Add(errors.NewSyntaxError("second", "", errors.SourceLocation{Line: 2}))
		NewDiagnosticReporter(&buf, false, false).ReportError(multi)

		out := buf.String()
		assert.Contains(t, out, "ERROR: 2 errors")
		assert.Contains(t, out, "Message: line 1: first")
		assert.Contains(t, out, "Message: line 2: second")
	})
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	var buf bytes.Buffer
	NewDiagnosticReporter(&buf, false, false).ReportWarning("careful")
	assert.Equal(t, "! careful\n", buf.String())
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Setting", formatContextKey("setting"))
	assert.Equal(t, "Import Path", formatContextKey("import_path"))
}
