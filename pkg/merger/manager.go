package merger

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/viant/afs/url"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/source"
	"github.com/siyuan-infoblox/codemerge/pkg/utils"
)

// Storage is what a merge run needs from the file system
type Storage interface {
	utils.Walker
	source.Reader
	source.Writer
}

// RunConfig describes a single merge run
type RunConfig struct {
	Directory   string
	Output      string
	WorkDir     string // base for relative and default output paths
	Recurse     bool
	MaxDepth    int
	Ignore      []string
	MaxFileSize uint64
	DryRun      bool // merge without writing
	Diff        bool // merge without writing, keeping the existing output for comparison
}

// Outcome describes a finished merge run
type Outcome struct {
	*Result
	OutputPath string
	Written    bool
	Previous   string // existing output content, loaded only for diff runs
}

// Manager drives a merge run: collect, parse, merge and write. A run either writes the
// complete output or nothing.
type Manager struct {
	merger  FileMerger
	storage Storage
	logger  *slog.Logger
}

// NewManager creates a Manager
func NewManager(merger FileMerger, storage Storage, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{merger: merger, storage: storage, logger: logger}
}

// Run performs one merge run
func (m *Manager) Run(ctx context.Context, cfg RunConfig) (*Outcome, error) {
	if cfg.Directory == "" {
		return nil, errors.ErrMissingDirectory
	}

	outputPath, err := utils.NormalizeOutputPath(cfg.Output, m.merger.OutputExtension(), cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	m.logger.Info(errors.InfoMsgCollectingFiles, "directory", cfg.Directory, "recurse", cfg.Recurse)
	files, err := utils.FindSourceFiles(ctx, m.storage, cfg.Directory, utils.FindOptions{
		Extensions:  m.merger.ValidExtensions(),
		Recursive:   cfg.Recurse,
		MaxDepth:    cfg.MaxDepth,
		Ignore:      cfg.Ignore,
		MaxFileSize: cfg.MaxFileSize,
		Logger:      m.logger,
	})
	if err != nil {
		return nil, err
	}
	files = excludeOutput(files, outputPath)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoSourceFiles, cfg.Directory)
	}
	m.logger.Info(errors.InfoMsgFoundSourceFiles, "files", len(files))

	result, err := m.merger.MergeFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToMergeFiles, err)
	}

	outcome := &Outcome{Result: result, OutputPath: outputPath}
	if cfg.Diff {
		outcome.Previous, err = m.previousOutput(ctx, outputPath)
		if err != nil {
			return nil, err
		}
	}
	if cfg.DryRun || cfg.Diff {
		m.logger.Info(errors.InfoMsgDryRunOutputHeader, "output", outputPath)
		return outcome, nil
	}

	m.logger.Info(errors.InfoMsgWritingOutput, "output", outputPath)
	if err := m.storage.Write(ctx, outputPath, []byte(result.Text)); err != nil {
		return nil, err
	}
	outcome.Written = true
	m.logger.Info(errors.InfoMsgMergeCompleted, "output", outputPath, "files", len(result.Files))
	return outcome, nil
}

// previousOutput loads the current output file; a missing file reads as empty
func (m *Manager) previousOutput(ctx context.Context, outputPath string) (string, error) {
	data, err := m.storage.Read(ctx, outputPath)
	if err != nil {
		if stderrors.Is(err, errors.ErrRead) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// excludeOutput drops the output file from the inputs so reruns do not merge their own output
func excludeOutput(files []string, outputPath string) []string {
	kept := files[:0]
	for _, file := range files {
		if filepath.Clean(url.Path(file)) == filepath.Clean(outputPath) {
			continue
		}
		kept = append(kept, file)
	}
	return kept
}
