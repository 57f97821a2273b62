package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
)

func TestFormatter_classifyImport(t *testing.T) {
	req := require.New(t)
	f := New(DefaultOptions())

	tests := []struct {
		name       string
		identifier string
		want       ImportGroup
	}{
		{"root namespace", "System", StdGroup},
		{"nested namespace", "System.Collections.Generic", StdGroup},
		{"user namespace", "Aueloka.Foo", UserGroup},
		{"third party", "Newtonsoft.Json", UserGroup},
		{"contains prefix later", "Acme.System", UserGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.want, f.classifyImport(tt.identifier), "classifyImport(%q)", tt.identifier)
		})
	}
}

func TestFormatter_SortImports(t *testing.T) {
	t.Run("standard imports first", func(t *testing.T) {
		req := require.New(t)
		f := New(DefaultOptions())
		sorted := f.SortImports([]string{"System.IO", "System.Linq", "Aueloka.Foo"})
		req.Equal([]string{"System.IO", "System.Linq", "Aueloka.Foo"}, sorted)
	})

	t.Run("both groups sorted", func(t *testing.T) {
		req := require.New(t)
		f := New(DefaultOptions())
		sorted := f.SortImports([]string{"Zed", "System.Text", "Acme.Core", "System", "System.IO"})
		req.Equal([]string{"System", "System.IO", "System.Text", "Acme.Core", "Zed"}, sorted)
	})

	t.Run("custom prefix", func(t *testing.T) {
		req := require.New(t)
		options := DefaultOptions()
		options.StdPrefix = "Microsoft"
		f := New(options)
		sorted := f.SortImports([]string{"System.IO", "Microsoft.Extensions"})
		req.Equal([]string{"Microsoft.Extensions", "System.IO"}, sorted)
	})

	t.Run("input is not modified", func(t *testing.T) {
		req := require.New(t)
		f := New(DefaultOptions())
		input := []string{"B", "A"}
		f.SortImports(input)
		req.Equal([]string{"B", "A"}, input)
	})
}

func TestCompareImports(t *testing.T) {
	req := require.New(t)
	req.Equal(-1, CompareImports("System.IO", "Aueloka.Foo", "System"))
	req.Equal(1, CompareImports("Aueloka.Foo", "System.IO", "System"))
	req.Equal(-1, CompareImports("System.IO", "System.Linq", "System"))
	req.Equal(-1, CompareImports("Alpha", "Beta", "System"))
	req.Equal(0, CompareImports("System.IO", "System.IO", "System"))
}

func TestFormatter_Header(t *testing.T) {
	req := require.New(t)
	f := New(DefaultOptions())
	header := f.Header("Program.cs")

	lines := strings.Split(header, "\n")
	req.Len(lines, 4)
	req.Equal("", lines[0])

	separator := "    " + strings.Repeat("/", 80)
	req.Equal(separator, lines[1])
	req.Equal(separator, lines[3])
	req.True(strings.HasPrefix(lines[2], "    //  Code from: Program.cs "))
	req.True(strings.HasSuffix(lines[2], "//"))
	req.Len(lines[2], len(separator))
}

func TestFormatter_Header_longName(t *testing.T) {
	req := require.New(t)
	f := New(DefaultOptions())
	name := strings.Repeat("x", 100) + ".cs"
	lines := strings.Split(f.Header(name), "\n")
	req.Equal("    //  Code from: "+name+" //", lines[2])
}

func header(name string) string {
	prefix := "    //  Code from: " + name
	separator := "    " + strings.Repeat("/", 80)
	return "\n" + separator + "\n" + prefix + strings.Repeat(" ", 84-len(prefix)-2) + "//\n" + separator
}

func TestFormatter_Format_importsOutside(t *testing.T) {
	req := require.New(t)
	f := New(DefaultOptions())
	doc := &Document{
		Imports: []string{"Acme", "System.Linq", "System"},
		Groups: []*Group{
			{
				Name:          "N",
				Imports:       []string{"Ignored"},
				Contributions: []Contribution{{FileName: "A.cs", Content: "    class A {}"}},
			},
		},
	}

	expected := "using System;\nusing System.Linq;\nusing Acme;\n" +
		"\nnamespace N {\n" +
		header("A.cs") + "\n" +
		"    class A {}\n" +
		"}\n"
	req.Equal(expected, f.Format(doc))
}

func TestFormatter_Format_importsInside(t *testing.T) {
	req := require.New(t)
	options := DefaultOptions()
	options.Placement = PlacementInside
	options.BraceStyle = BraceNextLine
	f := New(options)
	doc := &Document{
		Groups: []*Group{
			{
				Name:    "First",
				Imports: []string{"Acme", "System"},
				Contributions: []Contribution{
					{FileName: "A.cs", Content: "    class A {}"},
					{FileName: "B.cs", Content: "    class B {}"},
				},
			},
			{
				Name:          "Second",
				Contributions: []Contribution{{FileName: "C.cs", Content: "    class C {}"}},
			},
		},
	}

	expected := "\nnamespace First\n{\n" +
		"    using System;\n    using Acme;\n" +
		header("A.cs") + "\n    class A {}\n" +
		header("B.cs") + "\n    class B {}\n" +
		"}\n" +
		"\nnamespace Second\n{\n" +
		header("C.cs") + "\n    class C {}\n" +
		"}\n"
	req.Equal(expected, f.Format(doc))
}

func TestFormatter_Format_empty(t *testing.T) {
	req := require.New(t)
	req.Equal("", New(DefaultOptions()).Format(&Document{}))
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr error
	}{
		{"defaults", func(*Options) {}, nil},
		{"inside placement", func(o *Options) { o.Placement = PlacementInside }, nil},
		{"zero indent", func(o *Options) { o.IndentSize = 0 }, errors.ErrInvalidIndentSize},
		{"negative indent", func(o *Options) { o.IndentSize = -2 }, errors.ErrInvalidIndentSize},
		{"unknown placement", func(o *Options) { o.Placement = "sideways" }, errors.ErrInvalidPlacement},
		{"empty placement", func(o *Options) { o.Placement = "" }, errors.ErrInvalidPlacement},
		{"unknown brace style", func(o *Options) { o.BraceStyle = "k&r" }, errors.ErrInvalidBraceStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			options := DefaultOptions()
			tt.modify(&options)
			err := options.Validate()
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestParsePlacement(t *testing.T) {
	req := require.New(t)
	placement, err := ParsePlacement("imports-inside-namespace")
	req.NoError(err)
	req.Equal(PlacementInside, placement)

	_, err = ParsePlacement("inside")
	req.ErrorIs(err, errors.ErrInvalidPlacement)
}
