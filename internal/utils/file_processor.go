package utils

import (
	"go/ast"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/docanno/internal/errors"
)

// FileProcessor finds package directories and parses their Go files
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// FileFilter reports whether a directory entry should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter reports whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// DefaultGoFileFilter accepts .go files, excluding tests
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go")
	}
}

// DefaultDirectoryFilter skips directories the go tool ignores and common
// non-source trees.
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// ScanDirectoriesWithGoFiles walks rootDirs and returns every directory
// holding at least one non-test Go file. A directory reached twice is
// reported once.
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve path", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	var packageDirs []string
	if containsGoFile(dir, entries) {
		packageDirs = append(packageDirs, dir)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any non-test .go files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return containsGoFile(dir, entries), nil
}

func containsGoFile(dir string, entries []os.DirEntry) bool {
	fileFilter := DefaultGoFileFilter()
	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true
		}
	}
	return false
}

// ParsePackageDir parses the non-test Go files of one directory, sorted by
// path, and returns them with their package name. Files of a second
// package in the same directory are an error.
func (fp *FileProcessor) ParsePackageDir(dirPath string) ([]*ast.File, string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, "", errors.WrapFileSystemError("read directory", dirPath, err)
	}

	// os.ReadDir returns entries sorted by name
	var files []*ast.File
	var packageName string
	fileFilter := DefaultGoFileFilter()

	for _, entry := range entries {
		filePath := filepath.Join(dirPath, entry.Name())
		if !fileFilter(filePath, entry) {
			continue
		}

		file, err := fp.fileReader.ParseGoFile(filePath)
		if err != nil {
			return nil, "", err
		}

		switch {
		case packageName == "":
			packageName = file.Name.Name
		case file.Name.Name != packageName:
			return nil, "", errors.Newf(errors.FileSystemErrorCode,
				"multiple packages found in directory %s: %s and %s", dirPath, packageName, file.Name.Name).
				WithContext("path", dirPath)
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, "", errors.Newf(errors.FileSystemErrorCode, "no Go files found in directory %s", dirPath).
			WithContext("path", dirPath)
	}

	return files, packageName, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
