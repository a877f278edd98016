package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/fileutil"
)

// inputExts lists the accepted result file extensions.
var inputExts = map[string]bool{".md": true, ".markdown": true, ".txt": true, ".json": true}

// fileToRender is a single result file and its destination.
type fileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all result files to render under inputPath.
func discoverFiles(inputPath, output, ext string) ([]fileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateInputExtension(inputPath); err != nil {
			return nil, err
		}
		return []fileToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, output, "", ext)}}, nil
	}

	var files []fileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isInputFile(path) {
			return nil
		}
		files = append(files, fileToRender{InputPath: path, OutputPath: resolveOutputPath(path, output, inputPath, ext)})
		return nil
	})

	return files, err
}

func isInputFile(path string) bool {
	return inputExts[strings.ToLower(filepath.Ext(path))]
}

// resolveOutputPath determines the output path for a result file.
// An output ending in ext names the file itself; otherwise it is a directory
// that mirrors the input tree. Paths that would overwrite the input get a
// ".rendered" suffix.
func resolveOutputPath(inputPath, output, baseInputDir, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	var out string
	switch {
	case output == "":
		out = fileutil.ReplaceExt(inputPath, ext)
	case strings.HasSuffix(output, "."+ext) && baseInputDir == "":
		out = output
	default:
		out = filepath.Join(output, stem+"."+ext)
		if baseInputDir != "" {
			if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
				out = filepath.Join(output, filepath.Dir(rel), stem+"."+ext)
			}
		}
	}

	if filepath.Clean(out) == filepath.Clean(inputPath) {
		out = strings.TrimSuffix(out, "."+ext) + ".rendered." + ext
	}
	return out
}

// validateInputExtension checks that a file is a supported result file.
func validateInputExtension(path string) error {
	if !isInputFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > resultview.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, resultview.MaxPoolSize)
	}
	return nil
}
