package formatter

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/siyuan-infoblox/codemerge/pkg/std"
)

// headerWidth is the column width of the provenance header, excluding indentation
const headerWidth = 80

const (
	headerLabel      = "//  Code from: "
	headerTerminator = "//"
	namespaceClose   = "}\n"
)

// Contribution is one file's content within a namespace
type Contribution struct {
	FileName string
	Content  string
}

// Group is the merged content of one namespace
type Group struct {
	Name          string
	Imports       []string // deduplicated, in first-seen order
	Contributions []Contribution
}

// Document is a merged source ready to be rendered
type Document struct {
	Imports []string // global imports, only filled when imports are placed outside namespaces
	Groups  []*Group // namespaces in first-seen order
}

// formatter renders merged documents
type formatter struct {
	options Options
}

// New creates a new formatter with the given output options
func New(options Options) *formatter {
	return &formatter{options: options}
}

func (f *formatter) getIndent() string {
	return strings.Repeat(" ", f.options.IndentSize)
}

func (f *formatter) importsInside() bool {
	return f.options.Placement == PlacementInside
}

// Format renders the document as C# source text
func (f *formatter) Format(doc *Document) string {
	var buf strings.Builder

	if !f.importsInside() {
		f.writeImports(&buf, doc.Imports, "")
	}

	for _, group := range doc.Groups {
		buf.WriteString("\n")
		buf.WriteString(f.namespaceOpen(group.Name))

		if f.importsInside() {
			f.writeImports(&buf, group.Imports, f.getIndent())
		}

		for _, contribution := range group.Contributions {
			buf.WriteString(f.Header(contribution.FileName))
			buf.WriteString("\n")
			buf.WriteString(contribution.Content)
			buf.WriteString("\n")
		}

		buf.WriteString(namespaceClose)
	}

	return buf.String()
}

func (f *formatter) namespaceOpen(name string) string {
	if f.options.BraceStyle == BraceNextLine {
		return "namespace " + name + "\n{\n"
	}
	return "namespace " + name + " {\n"
}

func (f *formatter) writeImports(buf *strings.Builder, imports []string, indent string) {
	for _, identifier := range f.SortImports(imports) {
		buf.WriteString(indent)
		buf.WriteString("using ")
		buf.WriteString(identifier)
		buf.WriteString(";\n")
	}
}

// Header returns the provenance comment placed before a file's content: a blank line, a
// separator, the file name line padded to the separator width, and the separator again
func (f *formatter) Header(fileName string) string {
	indent := f.getIndent()
	separator := indent + strings.Repeat("/", headerWidth)
	prefix := indent + headerLabel + fileName

	padding := headerWidth + len(indent) - utf8.RuneCountInString(prefix) - len(headerTerminator)
	if padding < 1 {
		padding = 1
	}

	var buf strings.Builder
	buf.WriteString("\n")
	buf.WriteString(separator)
	buf.WriteString("\n")
	buf.WriteString(prefix)
	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteString(headerTerminator)
	buf.WriteString("\n")
	buf.WriteString(separator)
	return buf.String()
}

// classifyImport determines which group an import belongs to
func (f *formatter) classifyImport(identifier string) ImportGroup {
	if std.IsStandardPackage(identifier, f.options.StdPrefix) {
		return StdGroup
	}
	return UserGroup
}

// SortImports returns the identifiers in emission order
func (f *formatter) SortImports(identifiers []string) []string {
	imports := make([]Import, 0, len(identifiers))
	for _, identifier := range identifiers {
		imports = append(imports, Import{Identifier: identifier, Group: f.classifyImport(identifier)})
	}

	sort.SliceStable(imports, func(i, j int) bool {
		return f.compareImports(imports[i], imports[j]) < 0
	})

	sorted := make([]string, 0, len(imports))
	for _, imp := range imports {
		sorted = append(sorted, imp.Identifier)
	}
	return sorted
}

func (f *formatter) compareImports(a, b Import) int {
	if a.Group != b.Group {
		if a.Group < b.Group {
			return -1
		}
		return 1
	}

	if a.Group == StdGroup {
		prefix := f.options.StdPrefix
		if c := strings.Compare(std.TrimPrefix(a.Identifier, prefix), std.TrimPrefix(b.Identifier, prefix)); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Identifier, b.Identifier)
}

// CompareImports orders two identifiers: standard-library identifiers first, compared with
// the prefix removed, then all others in lexicographic order
func CompareImports(a, b, stdPrefix string) int {
	f := New(Options{StdPrefix: stdPrefix})
	return f.compareImports(
		Import{Identifier: a, Group: f.classifyImport(a)},
		Import{Identifier: b, Group: f.classifyImport(b)},
	)
}
