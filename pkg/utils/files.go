package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
)

// DefaultMaxDepth bounds directory recursion
const DefaultMaxDepth = 4

// DefaultOutputName is the output file name used when none is given, without extension
const DefaultOutputName = "codemerge-output"

// DefaultIgnoredDirectories are build output folders never searched for sources
var DefaultIgnoredDirectories = []string{"bin", "obj"}

// Walker visits every object under a root location
type Walker interface {
	Walk(ctx context.Context, root string, visitor storage.OnVisit) error
}

// FindOptions controls source file discovery
type FindOptions struct {
	Extensions  []string // accepted extensions including the dot
	Recursive   bool     // descend into subdirectories
	MaxDepth    int      // directories at this depth or deeper are skipped
	Ignore      []string // directory names to skip, in addition to DefaultIgnoredDirectories
	MaxFileSize uint64   // files larger than this are skipped, 0 disables the check
	Logger      *slog.Logger
}

// IsSourceFile checks if a file name has one of the extensions
func IsSourceFile(filename string, extensions []string) bool {
	ext := filepath.Ext(filename)
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// FindSourceFiles finds the source files under root, skipping directories matched by
// IsSkippedDirectory. Without Recursive only the files directly in root are returned.
func FindSourceFiles(ctx context.Context, walker Walker, root string, opts FindOptions) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	ignored := IgnoreSet(opts.Ignore)

	var files []string
	visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		relative := path.Join(parent, info.Name())
		if info.IsDir() {
			return shouldDescend(relative, info.Name(), maxDepth, opts.Recursive, ignored, logger), nil
		}
		if !IsSourceFile(info.Name(), opts.Extensions) {
			return true, nil
		}
		if opts.MaxFileSize > 0 && uint64(info.Size()) > opts.MaxFileSize {
			logger.Warn(errors.WarnMsgFileTooLarge, "file", relative, "size", info.Size())
			return true, nil
		}
		files = append(files, url.Join(baseURL, relative))
		return true, nil
	}

	if err := walker.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindSourceFiles, err)
	}
	return files, nil
}

func shouldDescend(relative, name string, maxDepth int, recursive bool, ignored map[string]bool, logger *slog.Logger) bool {
	if !recursive {
		return false
	}
	if IsSkippedDirectory(relative, name, ignored) {
		return false
	}
	if depth := strings.Count(relative, "/") + 1; depth >= maxDepth {
		logger.Warn(errors.WarnMsgMaxDepthReached, "directory", relative, "max_depth", maxDepth)
		return false
	}
	return true
}

// IsSkippedDirectory reports whether a directory is never searched for sources.
// relative is the slash separated path below the search root.
func IsSkippedDirectory(relative, name string, ignored map[string]bool) bool {
	return strings.HasPrefix(name, ".") || ignored[name] || enry.IsVendor(relative+"/")
}

// IgnoreSet combines DefaultIgnoredDirectories with user supplied names
func IgnoreSet(names []string) map[string]bool {
	ignored := make(map[string]bool)
	for _, name := range DefaultIgnoredDirectories {
		ignored[name] = true
	}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			ignored[name] = true
		}
	}
	return ignored
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// NormalizeOutputPath resolves the output file path: an empty path becomes
// <cwd>/codemerge-output<ext>, a missing extension is appended, a different extension is
// replaced, and the parent directory is created
func NormalizeOutputPath(outputPath, extension, cwd string) (string, error) {
	if outputPath == "" {
		outputPath = filepath.Join(cwd, DefaultOutputName+extension)
	}

	switch ext := filepath.Ext(outputPath); {
	case ext == "":
		outputPath += extension
	case ext != extension:
		outputPath = strings.TrimSuffix(outputPath, ext) + extension
	}

	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("%s: %w", errors.ErrMsgFailedToPrepareOutputPath, err)
	}
	return outputPath, nil
}
