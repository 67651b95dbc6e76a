package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/docanno/pkg/annotations"
)

// Formatter writes a report
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// NewFormatter returns the formatter for a configured output format
func NewFormatter(format string, useColors bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{UseColors: useColors}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// JSONFormatter writes the report as JSON, keeping annotation order
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.Indent)
	return encoder.Encode(report)
}

// TextFormatter writes the report as an indented tree
type TextFormatter struct {
	UseColors bool
}

// Format implements Formatter
func (f *TextFormatter) Format(w io.Writer, report *Report) error {
	typeColor := f.color(color.FgCyan, color.Bold)
	nameColor := f.color(color.FgGreen)
	dim := f.color(color.FgHiBlack)
	problemColor := f.color(color.FgRed)

	for _, entry := range report.Types {
		qualified := entry.Package + "." + entry.Name
		if entry.ImportPath != "" {
			qualified = entry.ImportPath + "." + entry.Name
		}
		typeColor.Fprintf(w, "%s", qualified)
		if entry.Location != "" {
			dim.Fprintf(w, "  (%s)", entry.Location)
		}
		fmt.Fprintln(w)

		writeAnnotations(w, "  ", entry.Class, nameColor, dim)

		for _, prop := range entry.Properties {
			if prop.Annotations.IsEmpty() {
				continue
			}
			fmt.Fprintf(w, "  .%s\n", prop.Name)
			writeAnnotations(w, "    ", prop.Annotations, nameColor, dim)
		}
	}

	if len(report.Problems) > 0 {
		fmt.Fprintln(w)
		for _, problem := range report.Problems {
			problemColor.Fprintf(w, "! %s\n", problem)
		}
	}
	return nil
}

func writeAnnotations(w io.Writer, indent string, parsed *annotations.Annotations, nameColor, dim *color.Color) {
	for _, entry := range parsed.Entries() {
		if entry.Kind == annotations.BareEntry {
			fmt.Fprintf(w, "%s%s\n", indent, entry.Text)
			continue
		}

		nameColor.Fprintf(w, "%s@%s", indent, entry.Name)
		fmt.Fprintf(w, "(%s)\n", formatArgs(entry.Args))
	}
	if parsed.IsEmpty() {
		dim.Fprintf(w, "%s(no annotations)\n", indent)
	}
}

func formatArgs(args *annotations.Args) string {
	parts := make([]string, 0, args.Len())
	for _, arg := range args.Entries() {
		if arg.IsNamed() {
			parts = append(parts, arg.Key+"="+arg.Value)
		} else {
			parts = append(parts, arg.Value)
		}
	}
	return strings.Join(parts, ", ")
}

func (f *TextFormatter) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if f.UseColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
