package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/docanno/internal/errors"
	"github.com/toyz/docanno/internal/utils"
)

// LoadPackages builds an index from the packages matching patterns,
// resolved relative to dir with the go tool.
func LoadPackages(ctx context.Context, dir string, patterns ...string) (*Index, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapWithOperation("load", fmt.Sprintf("packages %s", strings.Join(patterns, " ")), err)
	}

	var problems []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			problems = append(problems, e.Error())
		}
	})
	if len(problems) > 0 {
		return nil, errors.Newf(errors.UnknownErrorCode, "package errors:\n  %s", strings.Join(problems, "\n  "))
	}

	// sorted so that repeated runs index types in the same order
	idx := NewIndex(nil)
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	for _, pkg := range pkgs {
		pkgIndex := NewIndex(pkg.Fset, pkg.Syntax...)
		pkgIndex.SetImportPath(pkg.PkgPath)
		idx.Merge(pkgIndex)
	}
	return idx, nil
}

// LoadDir builds an index from the non-test Go files of one directory
// without invoking the go tool.
func LoadDir(processor *utils.FileProcessor, dir string) (*Index, error) {
	files, _, err := processor.ParsePackageDir(dir)
	if err != nil {
		return nil, err
	}
	return NewIndex(processor.GetFileReader().GetFileSet(), files...), nil
}

// LoadDirs builds one index spanning several directories
func LoadDirs(processor *utils.FileProcessor, dirs []string) (*Index, error) {
	idx := NewIndex(nil)
	for _, dir := range dirs {
		dirIndex, err := LoadDir(processor, dir)
		if err != nil {
			return nil, err
		}
		idx.Merge(dirIndex)
	}
	return idx, nil
}
