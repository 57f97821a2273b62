package merger

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/codemerge/pkg/csharp"
	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/source"
)

const csharpExtension = ".cs"

// DefaultWorkers bounds concurrent file reads
const DefaultWorkers = 8

// CSharp merges C# source files
type CSharp struct {
	options formatter.Options
	workers int
	reader  source.Reader
	logger  *slog.Logger
}

// NewCSharp creates a C# merger, filling unset config with defaults
func NewCSharp(cfg Config) *CSharp {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Reader == nil {
		cfg.Reader = source.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CSharp{
		options: cfg.Options,
		workers: cfg.Workers,
		reader:  cfg.Reader,
		logger:  cfg.Logger,
	}
}

func (c *CSharp) ValidExtensions() []string {
	return []string{csharpExtension}
}

func (c *CSharp) OutputExtension() string {
	return csharpExtension
}

func (c *CSharp) HelpText() string {
	return `--usings-inside: place using statements inside the namespaces
--placement: imports-inside-namespace | imports-outside-namespace (default)
--indent: number of spaces per indent level (default 4)
--std-prefix: namespace prefix sorted first in import blocks (default System)
--brace-style: same-line (default) | next-line`
}

// MergeFiles loads every file, sorts the records and merges them. Options are validated
// before any file is read.
func (c *CSharp) MergeFiles(ctx context.Context, paths []string) (*Result, error) {
	if err := c.options.Validate(); err != nil {
		return nil, err
	}

	records, err := c.loadRecords(ctx, paths)
	if err != nil {
		return nil, err
	}
	csharp.SortRecords(records)

	result := &Result{}
	for _, record := range records {
		result.Files = append(result.Files, record.Name)
		if len(record.Namespaces) == 0 {
			result.Skipped = append(result.Skipped, record.Name)
			c.logger.Warn(errors.WarnMsgNoNamespace, "file", record.Path)
		}
	}

	c.logger.Info(errors.InfoMsgMergingFiles, "files", len(records))
	result.Document, err = Merge(records, c.options)
	if err != nil {
		return nil, err
	}
	result.Text = formatter.New(c.options).Format(result.Document)
	c.logger.Info(errors.InfoMsgDoneMerging, "namespaces", len(result.Document.Groups))

	return result, nil
}

// loadRecords parses the files concurrently; all of them are materialized before returning
func (c *CSharp) loadRecords(ctx context.Context, paths []string) ([]*csharp.SourceRecord, error) {
	records := make([]*csharp.SourceRecord, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			record, err := csharp.ParseFile(ctx, path, c.reader)
			if err != nil {
				return err
			}
			c.logger.Debug("parsed file", "file", path, "namespaces", len(record.Namespaces), "entry_point", record.HasEntryPoint)
			records[i] = record
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
