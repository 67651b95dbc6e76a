package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/docanno/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	out       io.Writer
	verbose   bool
	useColors bool
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose, useColors bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:       out,
		verbose:   verbose,
		useColors: useColors,
	}
}

// ReportWarning writes a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	r.color(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError writes err with its location, context and suggestions when it
// carries them.
func (r *DiagnosticReporter) ReportError(err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 1 {
		r.printHeader(fmt.Sprintf("%d errors", multi.Count()))
		for _, e := range multi.Errors {
			r.reportOne(e)
		}
		return
	}

	var rich errors.DocannoError
	if stderrors.As(err, &rich) {
		r.printHeader(rich.ErrorCode().String())
		r.reportOne(rich)
		return
	}

	r.printHeader("Error")
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) reportOne(err errors.DocannoError) {
	fmt.Fprintf(r.out, "Message: %s\n", err.Error())

	if r.verbose {
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(r.out, "Underlying cause: %s\n", cause.Error())
		}
		r.printContext(err.Context())
	}

	for _, suggestion := range err.Suggestions() {
		r.color(color.FgCyan).Fprintf(r.out, "  hint: %s\n", suggestion)
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printHeader(title string) {
	r.color(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("=", len(title)+7))
}

// printContext prints context information sorted by key
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
