package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mscx.catalog")

// FileInfo carries one score file from the scanner to the processor.
type FileInfo struct {
	Path         string
	LastModified int64
	Content      []byte
}

func scanFile(path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &FileInfo{
		Path:         path,
		LastModified: info.ModTime().Unix(),
		Content:      content,
	}, nil
}

func scanDirectory(root string, exts []string) ([]*FileInfo, error) {
	var files []*FileInfo

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if hasExt(path, exts) {
			fileInfo, err := scanFile(path)
			if err != nil {
				log.Warningf("failed to scan file %s: %v", path, err)
				return nil // Continue walking despite error
			}
			files = append(files, fileInfo)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
