package cli

import (
	"fmt"

	"github.com/toyz/docanno/internal/utils"
)

// ModuleResolver maps package directories to import paths
type ModuleResolver struct {
	goMod        *utils.GoModParser
	customModule string
	modules      map[string]*utils.ModuleInfo
}

// NewModuleResolver creates a new module resolver. A non-empty customModule
// replaces the module path read from go.mod.
func NewModuleResolver(reader *utils.FileReader, customModule string) *ModuleResolver {
	return &ModuleResolver{
		goMod:        utils.NewGoModParser(reader),
		customModule: customModule,
		modules:      make(map[string]*utils.ModuleInfo),
	}
}

// ImportPath returns the import path of dir, or an error when dir is not
// inside a module.
func (r *ModuleResolver) ImportPath(dir string) (string, error) {
	module, err := r.module(dir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module for %s: %w (consider using -module flag)", dir, err)
	}
	return module.ImportPath(dir)
}

func (r *ModuleResolver) module(dir string) (*utils.ModuleInfo, error) {
	if module, ok := r.modules[dir]; ok {
		return module, nil
	}

	module, err := r.goMod.ResolveModule(dir)
	if err != nil {
		return nil, err
	}
	if r.customModule != "" {
		custom := *module
		custom.Path = r.customModule
		module = &custom
	}

	r.modules[dir] = module
	return module, nil
}
