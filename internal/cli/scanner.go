package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/docanno/internal/errors"
	"github.com/toyz/docanno/internal/utils"
)

// DirectoryScanner resolves CLI targets to package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(fileProcessor *utils.FileProcessor) *DirectoryScanner {
	if fileProcessor == nil {
		fileProcessor = utils.NewFileProcessor()
	}
	return &DirectoryScanner{
		fileProcessor: fileProcessor,
	}
}

// ScanDirectories returns the directories holding Go files. Targets ending
// in "/..." are scanned recursively; other targets are taken as they are
// and must contain Go files themselves.
func (s *DirectoryScanner) ScanDirectories(targets []string) ([]string, error) {
	var recursive []string
	var dirs []string
	seen := make(map[string]bool)

	for _, target := range targets {
		if target == "..." || strings.HasSuffix(target, "/...") {
			baseDir := strings.TrimSuffix(strings.TrimSuffix(target, "..."), "/")
			if baseDir == "" {
				baseDir = "."
			}

			cleanPath, err := filepath.Abs(baseDir)
			if err != nil {
				return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", baseDir), err)
			}
			recursive = append(recursive, cleanPath)
			continue
		}

		cleanPath, err := filepath.Abs(target)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", target), err)
		}

		hasGoFiles, err := s.fileProcessor.HasGoFiles(cleanPath)
		if err != nil {
			return nil, errors.WrapFileSystemError("read directory", target, err)
		}
		if !hasGoFiles {
			return nil, errors.Newf(errors.FileSystemErrorCode, "no Go files found in %s", target)
		}
		if !seen[cleanPath] {
			seen[cleanPath] = true
			dirs = append(dirs, cleanPath)
		}
	}

	if len(recursive) > 0 {
		found, err := s.fileProcessor.ScanDirectoriesWithGoFiles(recursive)
		if err != nil {
			return nil, err
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	return dirs, nil
}
