// Package csharp extracts namespace, using and entry point structure from C# source text.
//
// Extraction is textual: regular expressions locate declarations and bodies, and exotic
// syntax (the namespace keyword inside an unfiltered string, unbalanced braces) may yield
// truncated or empty blocks instead of an error.
package csharp

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/source"
)

const namespaceMarker = "namespace "

var (
	entryPointPattern = regexp.MustCompile(`Main\s*\(.*\)\s*\{`)
	namespacePattern  = regexp.MustCompile(`\bnamespace\s+([A-Za-z0-9_.\-]+)`)
	importPattern     = regexp.MustCompile(`\busing\s+([\w.]+);\s*`)

	// same-line strings and comments mentioning the keyword are blanked before discovery
	keywordNoisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`".*namespace.*"`),
		regexp.MustCompile(`//.*namespace.*`),
		regexp.MustCompile(`/\*.*namespace.*\*/`),
	}
)

// ParseFile reads the file at path and extracts its SourceRecord
func ParseFile(ctx context.Context, path string, reader source.Reader) (*SourceRecord, error) {
	data, err := reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	return ParseText(filepath.Base(path), path, string(data)), nil
}

// ParseText extracts a SourceRecord from raw source text
func ParseText(name, path, text string) *SourceRecord {
	record := &SourceRecord{
		Name:          name,
		Path:          path,
		HasEntryPoint: HasEntryPoint(text),
	}

	names := DiscoverNamespaces(text)
	working := text
	for i, namespace := range names {
		block, remaining, _ := ExtractNamespace(working, namespace, i == len(names)-1)
		record.Namespaces = append(record.Namespaces, block)
		working = remaining
	}

	record.Imports, _ = ExtractImports(working)
	return record
}

// HasEntryPoint reports whether text declares a Main method, whatever its parameters
func HasEntryPoint(text string) bool {
	return entryPointPattern.MatchString(text)
}

// DiscoverNamespaces returns declared namespace names in source order. Declarations inside
// same-line string literals and comments are ignored.
func DiscoverNamespaces(text string) []string {
	for _, noise := range keywordNoisePatterns {
		text = noise.ReplaceAllString(text, "")
	}

	var names []string
	for _, match := range namespacePattern.FindAllStringSubmatch(text, -1) {
		names = append(names, match[1])
	}
	return names
}

// ExtractNamespace pulls the first declaration of the named namespace out of text and returns
// the block together with the text left for later scans.
//
// When last is false the body ends at the closing brace that precedes the next namespace
// keyword. Text between that brace and the keyword which holds no braces (a trailing comment,
// #endregion, a top-level using) is kept, and the block is replaced by a bare "namespace "
// marker so the next declaration stays intact. When last is true the body runs to the final
// closing brace and the span is removed. ok is false when no body matched; the block then has
// empty content and text is returned unchanged.
func ExtractNamespace(text, name string, last bool) (block NamespaceBlock, remaining string, ok bool) {
	block = NamespaceBlock{Name: name}

	pattern, marker := namespaceBodyPattern(name, last)
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return block, text, false
	}

	content := trimTrailingSpace(text[loc[2]:loc[3]])
	block.Imports, content = ExtractImports(content)
	block.Content = trimTrailingSpace(content)
	block.HasEntryPoint = HasEntryPoint(block.Content)

	remaining = text[:loc[0]]
	if !last {
		remaining += text[loc[4]:loc[5]]
	}
	return block, remaining + marker + text[loc[1]:], true
}

func namespaceBodyPattern(name string, last bool) (*regexp.Regexp, string) {
	declaration := `namespace\s+` + regexp.QuoteMeta(name) + `\s*\{`
	if last {
		return regexp.MustCompile(declaration + `((?s:.)*)\}`), ""
	}
	return regexp.MustCompile(declaration + `((?s:.)*?)\}([^{}]*?)\bnamespace\s+`), namespaceMarker
}

// ExtractImports collects the using directives of text, deduplicated in first-seen order,
// and returns text with every matched directive removed
func ExtractImports(text string) ([]string, string) {
	var imports []string
	seen := make(map[string]bool)

	for _, match := range importPattern.FindAllStringSubmatch(text, -1) {
		identifier := match[1]
		if seen[identifier] {
			continue
		}
		seen[identifier] = true
		imports = append(imports, identifier)
	}

	return imports, importPattern.ReplaceAllString(text, "")
}

func trimTrailingSpace(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace)
}
