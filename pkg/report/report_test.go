package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/merger"
)

func testOutcome() *merger.Outcome {
	return &merger.Outcome{
		Result: &merger.Result{
			Document: &formatter.Document{
				Imports: []string{"System", "Acme.Models"},
				Groups: []*formatter.Group{
					{Name: "Acme.App", Imports: []string{"System", "Acme.Models"}, Contributions: []formatter.Contribution{{FileName: "Program.cs"}}},
					{Name: "Acme.Models", Contributions: []formatter.Contribution{{FileName: "User.cs"}, {FileName: "Role.cs"}}},
				},
			},
			Text:    "namespace Acme.App {\n}\n",
			Files:   []string{"Program.cs", "Role.cs", "User.cs", "Setup.cs"},
			Skipped: []string{"Setup.cs"},
		},
		OutputPath: "/work/codemerge-output.cs",
		Written:    true,
	}
}

func TestNew(t *testing.T) {
	req := require.New(t)

	r, err := New("run-1", testOutcome())
	req.NoError(err)
	req.Equal("run-1", r.RunID)
	req.Equal(2, r.Imports)
	req.Equal([]Namespace{
		{Name: "Acme.App", Files: 1, Imports: 2},
		{Name: "Acme.Models", Files: 2, Imports: 0},
	}, r.Namespaces)
	req.Equal(uint64(len("namespace Acme.App {\n}\n")), r.Size)
	req.Len(r.Fingerprint, 16)
}

func TestNew_importsPlacedInsideNamespaces(t *testing.T) {
	req := require.New(t)
	outcome := testOutcome()
	outcome.Document.Imports = nil
	outcome.Document.Groups[1].Imports = []string{"System", "System.Linq"}

	r, err := New("run-2", outcome)
	req.NoError(err)
	req.Equal(3, r.Imports)
	req.Equal(2, r.Namespaces[1].Imports)
}

func TestFingerprint(t *testing.T) {
	req := require.New(t)
	a, err := Fingerprint([]byte("namespace A {}"))
	req.NoError(err)
	again, err := Fingerprint([]byte("namespace A {}"))
	req.NoError(err)
	b, err := Fingerprint([]byte("namespace B {}"))
	req.NoError(err)

	req.Equal(a, again)
	req.NotEqual(a, b)
}

func TestParseFormat(t *testing.T) {
	req := require.New(t)
	format, err := ParseFormat("YAML")
	req.NoError(err)
	req.Equal(FormatYAML, format)

	_, err = ParseFormat("xml")
	req.ErrorIs(err, errors.ErrInvalidReportFormat)
}

func TestRender(t *testing.T) {
	r, err := New("run-1", testOutcome())
	require.NoError(t, err)

	tests := []struct {
		format Format
		check  func(req *require.Assertions, out string)
	}{
		{
			format: FormatTable,
			check: func(req *require.Assertions, out string) {
				req.Contains(out, "Output: /work/codemerge-output.cs (22 B, written)")
				req.Contains(out, "Files: 4 merged, 1 without namespace")
				req.Contains(out, "NAMESPACE")
				req.Contains(out, "Acme.Models")
			},
		},
		{
			format: FormatYAML,
			check: func(req *require.Assertions, out string) {
				var decoded Report
				req.NoError(yaml.Unmarshal([]byte(out), &decoded))
				req.Equal(r.Namespaces, decoded.Namespaces)
				req.Contains(out, "run_id: run-1")
			},
		},
		{
			format: FormatJSON,
			check: func(req *require.Assertions, out string) {
				var decoded map[string]any
				req.NoError(json.Unmarshal([]byte(out), &decoded))
				req.Equal("/work/codemerge-output.cs", decoded["output"])
				req.Equal(true, decoded["written"])
			},
		},
		{
			format: FormatTOML,
			check: func(req *require.Assertions, out string) {
				var decoded Report
				req.NoError(toml.Unmarshal([]byte(out), &decoded))
				req.Equal("run-1", decoded.RunID)
				req.Equal(r.Namespaces, decoded.Namespaces)
				req.Contains(out, "[[namespaces]]")
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, r, tt.format))
			tt.check(require.New(t), buf.String())
		})
	}

	require.ErrorIs(t, Render(&bytes.Buffer{}, r, Format("xml")), errors.ErrInvalidReportFormat)
}

func TestDiff(t *testing.T) {
	req := require.New(t)
	previous := "using System;\n\nnamespace A {\n}\n"
	current := "using System;\nusing System.IO;\n\nnamespace A {\n}\n"

	lines := Diff(previous, current)
	added, removed := DiffStats(lines)
	req.Equal(1, added)
	req.Equal(0, removed)

	var rendered []string
	for _, line := range lines {
		rendered = append(rendered, line.String())
	}
	req.Equal(" using System;\n+using System.IO;\n \n namespace A {\n }", strings.Join(rendered, "\n"))
}

func TestDiff_identical(t *testing.T) {
	added, removed := DiffStats(Diff("a\nb\n", "a\nb\n"))
	require.Zero(t, added)
	require.Zero(t, removed)
}
