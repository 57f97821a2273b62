package merger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/source"
)

// LanguageCSharp is the language tag of the C# merger
const LanguageCSharp = "cs"

// FileMerger merges the source files of one language into a single file
type FileMerger interface {
	// ValidExtensions lists the file extensions the merger accepts, e.g. ".cs"
	ValidExtensions() []string
	// OutputExtension is the extension of the merged output file
	OutputExtension() string
	// HelpText describes the language specific options
	HelpText() string
	// MergeFiles merges the files at paths. Any file failing to load aborts the merge.
	MergeFiles(ctx context.Context, paths []string) (*Result, error)
}

// Result is the outcome of a merge
type Result struct {
	Document *formatter.Document
	Text     string
	Files    []string // display names in merge order
	Skipped  []string // files that declare no namespace
}

// Config holds what a FileMerger needs to run
type Config struct {
	Options formatter.Options
	Workers int
	Reader  source.Reader
	Logger  *slog.Logger
}

type factory func(Config) FileMerger

var registry = map[string]factory{
	LanguageCSharp: func(cfg Config) FileMerger { return NewCSharp(cfg) },
}

// SupportedLanguages returns the registered language tags
func SupportedLanguages() []string {
	languages := make([]string, 0, len(registry))
	for language := range registry {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// Lookup returns the merger registered for language
func Lookup(language string, cfg Config) (FileMerger, error) {
	create, ok := registry[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", errors.ErrUnsupportedLanguage, language, strings.Join(SupportedLanguages(), ", "))
	}
	return create(cfg), nil
}
