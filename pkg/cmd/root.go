package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/codemerge/pkg/config"
	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/logging"
	"github.com/siyuan-infoblox/codemerge/pkg/merger"
	"github.com/siyuan-infoblox/codemerge/pkg/report"
	"github.com/siyuan-infoblox/codemerge/pkg/source"
	"github.com/siyuan-infoblox/codemerge/pkg/utils"
	"github.com/siyuan-infoblox/codemerge/pkg/version"
	"github.com/siyuan-infoblox/codemerge/pkg/watch"
)

const (
	UseDescription   = "codemerge -d DIRECTORY [flags]"
	ShortDescription = "Merge the source files of a project into a single file"
	LongDescription  = `codemerge merges all source files of a directory into one file.

Files are grouped by the namespace they declare. Every file's content is written below a
"Code from" header inside its namespace, and the using directives of all files are
deduplicated and sorted, standard library namespaces first.

The file declaring the entry point (Main) is merged first, the rest in file name order.

Settings are read from .codemerge.yaml in the current or home directory (or --config) and
from CODEMERGE_* environment variables; flags take precedence.`
)

// flags holds the command line values of one invocation
type flags struct {
	configPath   string
	directory    string
	language     string
	output       string
	recurse      bool
	ignore       []string
	usingsInside bool
	placement    string
	indent       int
	stdPrefix    string
	braceStyle   string
	dryRun       bool
	diff         bool
	reportFormat string
	watch        bool
	langHelp     bool
	verbose      int
	quiet        bool
	showVersion  bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           UseDescription,
		Short:         ShortDescription,
		Long:          LongDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	defaults := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&f.directory, "directory", "d", "", "Directory containing the source files to merge")
	fs.StringVarP(&f.language, "lang", "l", defaults.Language, fmt.Sprintf("Language of the source files (supported: %v)", merger.SupportedLanguages()))
	fs.StringVarP(&f.output, "output", "o", "", "Output file (default ./"+utils.DefaultOutputName+"<ext>)")
	fs.BoolVarP(&f.recurse, "recurse", "r", false, "Search subdirectories for source files")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "Comma-separated directory names to skip, in addition to bin and obj")
	fs.BoolVar(&f.usingsInside, "usings-inside", false, "Place using directives inside the namespaces (same as --placement "+string(formatter.PlacementInside)+")")
	fs.StringVar(&f.placement, "placement", defaults.Placement, "Import placement: "+string(formatter.PlacementInside)+" or "+string(formatter.PlacementOutside))
	fs.IntVar(&f.indent, "indent", defaults.IndentSize, "Number of spaces per indent level")
	fs.StringVar(&f.stdPrefix, "std-prefix", defaults.StdPrefix, "Namespace prefix of standard library imports, sorted first")
	fs.StringVar(&f.braceStyle, "brace-style", defaults.BraceStyle, "Namespace brace placement: same-line or next-line")
	fs.StringVar(&f.configPath, "config", "", "Config file (default .codemerge.yaml in the current or home directory)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print the merged output instead of writing it")
	fs.BoolVar(&f.diff, "diff", false, "Print the changes against the existing output file instead of writing it")
	fs.StringVar(&f.reportFormat, "report", "", "Print a merge report: table, yaml, json or toml")
	fs.BoolVar(&f.watch, "watch", false, "Merge again whenever a source file changes")
	fs.BoolVar(&f.langHelp, "lang-help", false, "Show the options of the selected language")
	fs.CountVarP(&f.verbose, "verbose", "v", "Increase log verbosity")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only log errors")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")

	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	out := cmd.OutOrStdout()
	if f.showVersion {
		fmt.Fprintln(out, version.Get().String())
		return nil
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	options, err := cfg.MergeOptions()
	if err != nil {
		return err
	}
	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	logger, runID := logging.NewRunLogger(cmd.ErrOrStderr(), logging.LevelFromVerbosity(f.verbose, f.quiet))
	fileSystem := source.New()
	fileMerger, err := merger.Lookup(cfg.Language, merger.Config{
		Options: options,
		Workers: cfg.Workers,
		Reader:  fileSystem,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if f.langHelp {
		fmt.Fprintf(out, "Options for %s files (%v):\n%s\n", cfg.Language, fileMerger.ValidExtensions(), fileMerger.HelpText())
		return nil
	}

	runCfg, err := runConfig(cfg, f, maxFileSize)
	if err != nil {
		return err
	}

	r := &runner{
		manager: merger.NewManager(fileMerger, fileSystem, logger),
		cfg:     runCfg,
		report:  cfg.Report,
		runID:   runID,
		out:     out,
		logger:  logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !f.watch {
		return r.once(ctx)
	}

	if err := r.once(ctx); err != nil {
		logger.Error(errors.ErrMsgFailedToMergeFiles, "error", err)
	}
	watcher := watch.New(watch.Config{
		Directory:  runCfg.Directory,
		Recurse:    runCfg.Recurse,
		MaxDepth:   runCfg.MaxDepth,
		Ignore:     runCfg.Ignore,
		Extensions: fileMerger.ValidExtensions(),
		Output:     r.outputPath(fileMerger.OutputExtension()),
		Logger:     logger,
	}, r.once)
	return watcher.Run(ctx)
}

// loadConfig reads the config file and environment, then applies the flags set on the command line
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("directory") {
		cfg.Directory = f.directory
	}
	if changed("lang") {
		cfg.Language = f.language
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("recurse") {
		cfg.Recurse = f.recurse
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("placement") {
		cfg.Placement = f.placement
	}
	if f.usingsInside {
		cfg.Placement = string(formatter.PlacementInside)
	}
	if changed("indent") {
		cfg.IndentSize = f.indent
	}
	if changed("std-prefix") {
		cfg.StdPrefix = f.stdPrefix
	}
	if changed("brace-style") {
		cfg.BraceStyle = f.braceStyle
	}
	if changed("report") {
		cfg.Report = f.reportFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConfig(cfg *config.Config, f *flags, maxFileSize uint64) (merger.RunConfig, error) {
	if cfg.Directory == "" {
		return merger.RunConfig{}, errors.ErrMissingDirectory
	}
	directory, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return merger.RunConfig{}, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
	}
	isDir, err := utils.IsDirectory(directory)
	if err != nil {
		return merger.RunConfig{}, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
	}
	if !isDir {
		return merger.RunConfig{}, fmt.Errorf("%w: %s is not a directory", errors.ErrMissingDirectory, directory)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return merger.RunConfig{}, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
	}

	return merger.RunConfig{
		Directory:   directory,
		Output:      cfg.Output,
		WorkDir:     workDir,
		Recurse:     cfg.Recurse,
		MaxDepth:    cfg.MaxDepth,
		Ignore:      cfg.Ignore,
		MaxFileSize: maxFileSize,
		DryRun:      f.dryRun,
		Diff:        f.diff,
	}, nil
}

// runner performs a merge run and prints its results
type runner struct {
	manager *merger.Manager
	cfg     merger.RunConfig
	report  string
	runID   string
	out     io.Writer
	logger  *slog.Logger
}

func (r *runner) once(ctx context.Context) error {
	outcome, err := r.manager.Run(ctx, r.cfg)
	if err != nil {
		return err
	}

	switch {
	case r.cfg.Diff:
		printDiff(r.out, report.Diff(outcome.Previous, outcome.Text))
	case r.cfg.DryRun:
		fmt.Fprint(r.out, outcome.Text)
	default:
		color.New(color.FgGreen).Fprintf(r.out, "Merged %d files into %s\n", len(outcome.Files), outcome.OutputPath)
	}
	for _, skipped := range outcome.Skipped {
		color.New(color.FgYellow).Fprintf(r.out, "Skipped %s: no namespace declared\n", skipped)
	}

	if r.report == "" {
		return nil
	}
	format, err := report.ParseFormat(r.report)
	if err != nil {
		return err
	}
	summary, err := report.New(r.runID, outcome)
	if err != nil {
		return err
	}
	return report.Render(r.out, summary, format)
}

// outputPath is the resolved output file, used to ignore its own changes while watching
func (r *runner) outputPath(extension string) string {
	path, err := utils.NormalizeOutputPath(r.cfg.Output, extension, r.cfg.WorkDir)
	if err != nil {
		r.logger.Warn(errors.ErrMsgFailedToPrepareOutputPath, "error", err)
		return ""
	}
	return path
}

func printDiff(w io.Writer, lines []report.DiffLine) {
	added, removed := report.DiffStats(lines)
	if added == 0 && removed == 0 {
		fmt.Fprintln(w, "No changes")
		return
	}

	insert := color.New(color.FgGreen)
	remove := color.New(color.FgRed)
	for _, line := range lines {
		switch line.Op {
		case report.LineInsert:
			insert.Fprintln(w, line.String())
		case report.LineDelete:
			remove.Fprintln(w, line.String())
		default:
			fmt.Fprintln(w, line.String())
		}
	}
	fmt.Fprintf(w, "%d added, %d removed\n", added, removed)
}

// Execute runs the root command
func Execute() error {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
