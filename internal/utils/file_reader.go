package utils

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"

	"github.com/toyz/docanno/internal/errors"
)

// FileReader parses and reads files, caching results until the file changes
// on disk. All parsed files share one FileSet so that positions from
// different files stay comparable.
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, string](),
	}
}

// ParseGoFile parses a Go source file with its comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath, err := fr.checkPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, exists := fr.astCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	// doc comments are the whole point; ParseComments keeps them on the AST
	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, parseError(cleanPath, err)
	}

	_ = fr.astCache.SetWithFileInfo(cleanPath, file, cleanPath)
	return file, nil
}

// ReadFile reads a file and returns its contents as a string
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.checkPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read file", cleanPath, err)
	}

	contentStr := string(content)
	_ = fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)
	return contentStr, nil
}

// GetFileSet returns the token.FileSet used by this reader
func (fr *FileReader) GetFileSet() *token.FileSet {
	return fr.fileSet
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.astCache.Clear()
	fr.contentCache.Clear()
}

// GetCacheStats returns the number of cached ASTs and file contents
func (fr *FileReader) GetCacheStats() (astFiles, contentFiles int) {
	return fr.astCache.Size(), fr.contentCache.Size()
}

func (fr *FileReader) checkPath(filePath string) (string, error) {
	if err := NotEmpty("file path")(filePath); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); err != nil {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	return cleanPath, nil
}

// parseError points the error at the first syntax error go/parser found
func parseError(path string, err error) error {
	loc := errors.SourceLocation{File: path}
	list, ok := err.(scanner.ErrorList)
	if !ok || list.Len() == 0 {
		return errors.Wrap(errors.UnknownErrorCode, "failed to parse Go file", err).WithLocation(loc)
	}

	loc.Line = list[0].Pos.Line
	loc.Column = list[0].Pos.Column
	return errors.New(errors.UnknownErrorCode, "invalid Go source: "+list[0].Msg).
		WithLocation(loc).
		WithContext("errors", list.Len())
}
