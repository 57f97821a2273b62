package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
)

const (
	programSource = `using System;
using Acme.Models;

namespace Acme.App
{
    internal class Program
    {
        private static void Main(string[] args)
        {
            Console.WriteLine(new User().Name);
        }
    }
}
`
	userSource = `using System.Collections.Generic;

namespace Acme.Models
{
    public class User
    {
        public string Name { get; set; }
    }
}
`
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Program.cs"), []byte(programSource), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Models"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Models", "User.cs"), []byte(userSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("namespace Docs {}"), 0644))
	return dir
}

func TestRoot_version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "codemerge version")
}

func TestRoot_langHelp(t *testing.T) {
	out, err := execute(t, "--lang-help")
	require.NoError(t, err)
	require.Contains(t, out, "Options for cs files")
	require.Contains(t, out, "--usings-inside")
}

func TestRoot_errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Program.cs")
	require.NoError(t, os.WriteFile(file, []byte(programSource), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no directory", args: []string{}, wantErr: errors.ErrMissingDirectory},
		{name: "directory is a file", args: []string{"-d", file}, wantErr: errors.ErrMissingDirectory},
		{name: "unsupported language", args: []string{"-d", ".", "-l", "cpp"}, wantErr: errors.ErrUnsupportedLanguage},
		{name: "invalid placement", args: []string{"-d", ".", "--placement", "above"}, wantErr: errors.ErrInvalidPlacement},
		{name: "invalid indent", args: []string{"-d", ".", "--indent", "0"}, wantErr: errors.ErrInvalidIndentSize},
		{name: "invalid brace style", args: []string{"-d", ".", "--brace-style", "k&r"}, wantErr: errors.ErrInvalidBraceStyle},
		{name: "invalid report", args: []string{"-d", ".", "--report", "xml"}, wantErr: errors.ErrInvalidReportFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRoot_writesOutput(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)
	output := filepath.Join(t.TempDir(), "out", "merged.txt")

	out, err := execute(t, "-d", dir, "-r", "-o", output)
	req.NoError(err)

	written := strings.TrimSuffix(output, ".txt") + ".cs"
	req.Contains(out, "Merged 2 files into "+written)

	data, err := os.ReadFile(written)
	req.NoError(err)
	text := string(data)
	req.True(strings.HasPrefix(text, "using System;\nusing System.Collections.Generic;\nusing Acme.Models;\n\nnamespace Acme.App {\n"))
	req.Less(strings.Index(text, "Code from: Program.cs"), strings.Index(text, "Code from: User.cs"))
	req.NotContains(text, "Docs")
}

func TestRoot_withoutRecurseSkipsSubdirectories(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)

	out, err := execute(t, "-d", dir, "--dry-run")
	req.NoError(err)
	req.Contains(out, "Code from: Program.cs")
	req.NotContains(out, "Code from: User.cs")
}

func TestRoot_dryRunInsidePlacement(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)
	output := filepath.Join(t.TempDir(), "merged.cs")

	out, err := execute(t, "-d", dir, "-r", "-o", output, "--dry-run", "--usings-inside", "--brace-style", "next-line", "--indent", "2")
	req.NoError(err)
	req.True(strings.HasPrefix(out, "\nnamespace Acme.App\n{\n  using System;\n  using Acme.Models;\n"))
	req.Contains(out, "namespace Acme.Models\n{\n  using System.Collections.Generic;\n")
	req.NoFileExists(output)
}

func TestRoot_diff(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)
	output := filepath.Join(t.TempDir(), "merged.cs")

	_, err := execute(t, "-d", dir, "-r", "-o", output)
	req.NoError(err)
	before, err := os.ReadFile(output)
	req.NoError(err)

	out, err := execute(t, "-d", dir, "-r", "-o", output, "--diff")
	req.NoError(err)
	req.Contains(out, "No changes")

	out, err = execute(t, "-d", dir, "-r", "-o", output, "--diff", "--std-prefix", "Acme")
	req.NoError(err)
	req.Contains(out, "+using Acme.Models;")
	req.Contains(out, "-using Acme.Models;")
	req.Contains(out, "1 added, 1 removed")

	after, err := os.ReadFile(output)
	req.NoError(err)
	req.Equal(before, after)
}

func TestRoot_jsonReport(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)
	output := filepath.Join(t.TempDir(), "merged.cs")

	out, err := execute(t, "-d", dir, "-r", "-o", output, "--report", "json")
	req.NoError(err)

	start := strings.Index(out, "{")
	req.GreaterOrEqual(start, 0)
	var decoded struct {
		Output     string   `json:"output"`
		Written    bool     `json:"written"`
		Files      []string `json:"files"`
		Namespaces []struct {
			Name string `json:"name"`
		} `json:"namespaces"`
	}
	req.NoError(json.Unmarshal([]byte(out[start:]), &decoded))
	req.Equal(output, decoded.Output)
	req.True(decoded.Written)
	req.Equal([]string{"Program.cs", "User.cs"}, decoded.Files)
	req.Len(decoded.Namespaces, 2)
}

func TestRoot_configFile(t *testing.T) {
	req := require.New(t)
	dir := sourceDir(t)
	configPath := filepath.Join(t.TempDir(), "codemerge.yaml")
	req.NoError(os.WriteFile(configPath, []byte("directory: "+dir+"\nrecurse: true\nplacement: imports-inside-namespace\n"), 0644))

	out, err := execute(t, "--config", configPath, "--dry-run")
	req.NoError(err)
	req.Contains(out, "Code from: User.cs")
	req.Contains(out, "namespace Acme.Models {\n    using System.Collections.Generic;\n")
}
