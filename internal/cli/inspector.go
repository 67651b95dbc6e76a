package cli

import (
	"context"
	stderrors "errors"

	"github.com/toyz/docanno/internal/errors"
	"github.com/toyz/docanno/internal/source"
	"github.com/toyz/docanno/internal/utils"
	"github.com/toyz/docanno/pkg/annotations"
)

// TypeReport holds the annotations found on one type
type TypeReport struct {
	Name       string                   `json:"name"`
	Package    string                   `json:"package"`
	ImportPath string                   `json:"import_path,omitempty"`
	Location   string                   `json:"location,omitempty"`
	Class      *annotations.Annotations `json:"class"`
	Properties annotations.PropertySet  `json:"properties"`
}

// Report is the result of inspecting a set of targets
type Report struct {
	Types []TypeReport `json:"types"`

	// Problems holds strict-mode syntax errors; the report is still usable
	Problems []string `json:"problems,omitempty"`
}

// Summary counts what an inspection found
type Summary struct {
	PackagesScanned int
	TypesFound      int
	TypesAnnotated  int
	Problems        int
}

// Inspector loads Go types from the configured targets and reads their
// annotations.
type Inspector struct {
	config        *Config
	diagnostics   *utils.DiagnosticSystem
	fileProcessor *utils.FileProcessor
	scanner       *DirectoryScanner
	resolver      *ModuleResolver
	parser        *annotations.Parser
	summary       Summary
}

// NewInspector creates an inspector for a validated configuration
func NewInspector(config *Config, diagnostics *utils.DiagnosticSystem) (*Inspector, error) {
	opts, err := config.ParserOptions()
	if err != nil {
		return nil, err
	}

	fileProcessor := utils.NewFileProcessor()
	return &Inspector{
		config:        config,
		diagnostics:   diagnostics,
		fileProcessor: fileProcessor,
		scanner:       NewDirectoryScanner(fileProcessor),
		resolver:      NewModuleResolver(fileProcessor.GetFileReader(), config.ModuleName),
		parser:        annotations.NewParser(opts),
	}, nil
}

// Parser returns the annotation parser built from the configuration
func (i *Inspector) Parser() *annotations.Parser {
	return i.parser
}

// Summary returns the counters of the last Inspect call
func (i *Inspector) Summary() Summary {
	return i.summary
}

// Load builds one source index from all configured targets
func (i *Inspector) Load(ctx context.Context) (*source.Index, error) {
	if i.config.UsePackages {
		i.diagnostics.Verbose("Loading packages %v through the go tool", i.config.Targets)
		idx, err := source.LoadPackages(ctx, "", i.config.Targets...)
		if err != nil {
			return nil, err
		}
		i.summary.PackagesScanned = countPackages(idx)
		return idx, nil
	}

	dirs, err := i.scanner.ScanDirectories(i.config.Targets)
	if err != nil {
		return nil, err
	}
	i.summary.PackagesScanned = len(dirs)

	idx := source.NewIndex(nil)
	i.diagnostics.Indent()
	defer i.diagnostics.Unindent()
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dirIndex, err := source.LoadDir(i.fileProcessor, dir)
		if err != nil {
			return nil, err
		}

		importPath, err := i.resolver.ImportPath(dir)
		if err != nil {
			i.diagnostics.Debug("No import path for %s: %v", dir, err)
		} else {
			dirIndex.SetImportPath(importPath)
		}

		i.diagnostics.Verbose("Indexed %d types in %s", dirIndex.Len(), dir)
		idx.Merge(dirIndex)
	}

	return idx, nil
}

// Inspect reads the annotations of every type in idx, or of the configured
// type only. Lookup failures abort; strict-mode syntax errors are collected
// into the report.
func (i *Inspector) Inspect(idx *source.Index) (*Report, error) {
	types := idx.Types()
	if i.config.TypeName != "" {
		info, err := idx.Lookup(i.config.TypeName)
		if err != nil {
			return nil, err
		}
		types = []*source.TypeInfo{info}
	}

	report := &Report{Types: make([]TypeReport, 0, len(types))}
	i.summary.TypesFound = len(types)

	for _, info := range types {
		key := info.Key()
		entry := TypeReport{
			Name:       info.Name,
			Package:    info.Package,
			ImportPath: info.ImportPath,
		}
		if !info.Doc.Loc.IsEmpty() {
			entry.Location = info.Doc.Loc.String()
		}

		class, err := i.parser.ClassAnnotations(idx, key)
		if err != nil && !collectProblems(report, err) {
			return nil, err
		}
		entry.Class = class

		props, err := i.parser.PropertyAnnotations(idx, key, i.config.Property)
		if err != nil && !collectProblems(report, err) {
			return nil, err
		}
		entry.Properties = props

		if !entry.Class.IsEmpty() || hasAnnotatedProperty(entry.Properties) {
			i.summary.TypesAnnotated++
		}
		report.Types = append(report.Types, entry)
	}

	i.summary.Problems = len(report.Problems)
	return report, nil
}

// collectProblems records syntax errors in the report and reports whether
// err consisted of nothing else.
func collectProblems(report *Report, err error) bool {
	var multi *errors.MultipleErrors
	if !stderrors.As(err, &multi) || !multi.HasCode(errors.SyntaxErrorCode) {
		return false
	}
	report.Problems = append(report.Problems, multi.Messages()...)
	return true
}

func hasAnnotatedProperty(set annotations.PropertySet) bool {
	for _, prop := range set {
		if !prop.Annotations.IsEmpty() {
			return true
		}
	}
	return false
}

func countPackages(idx *source.Index) int {
	seen := make(map[string]bool)
	for _, info := range idx.Types() {
		seen[info.ImportPath] = true
	}
	return len(seen)
}
