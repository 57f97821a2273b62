// Package report summarizes a merge run and renders the summary for people or tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/minio/highwayhash"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/merger"
)

// Format is a report rendering
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
)

var formats = []Format{FormatTable, FormatYAML, FormatJSON, FormatTOML}

// fingerprintKey keys the HighwayHash of the merged output
var fingerprintKey = []byte("codemerge-output-fingerprint-key")

// ParseFormat converts a flag value to a Format
func ParseFormat(value string) (Format, error) {
	for _, format := range formats {
		if strings.EqualFold(value, string(format)) {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want table, yaml, json or toml)", errors.ErrInvalidReportFormat, value)
}

// Namespace summarizes one merged namespace
type Namespace struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Files   int    `json:"files" yaml:"files" toml:"files"`
	Imports int    `json:"imports" yaml:"imports" toml:"imports"`
}

// Report summarizes a merge run
type Report struct {
	RunID       string      `json:"run_id" yaml:"run_id" toml:"run_id"`
	Output      string      `json:"output" yaml:"output" toml:"output"`
	Written     bool        `json:"written" yaml:"written" toml:"written"`
	Files       []string    `json:"files" yaml:"files" toml:"files"`
	Skipped     []string    `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
	Imports     int         `json:"imports" yaml:"imports" toml:"imports"`
	Namespaces  []Namespace `json:"namespaces" yaml:"namespaces" toml:"namespaces"`
	Size        uint64      `json:"size" yaml:"size" toml:"size"`
	Fingerprint string      `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
}

// New builds the report of a finished run
func New(runID string, outcome *merger.Outcome) (*Report, error) {
	fingerprint, err := Fingerprint([]byte(outcome.Text))
	if err != nil {
		return nil, err
	}

	r := &Report{
		RunID:       runID,
		Output:      outcome.OutputPath,
		Written:     outcome.Written,
		Files:       outcome.Files,
		Skipped:     outcome.Skipped,
		Size:        uint64(len(outcome.Text)),
		Fingerprint: fmt.Sprintf("%016x", fingerprint),
	}
	if doc := outcome.Document; doc != nil {
		r.Imports = countImports(doc)
		for _, group := range doc.Groups {
			r.Namespaces = append(r.Namespaces, Namespace{
				Name:    group.Name,
				Files:   len(group.Contributions),
				Imports: len(group.Imports),
			})
		}
	}
	return r, nil
}

// countImports counts distinct imports across the document. The global set is empty when
// imports are placed inside namespaces, so the group sets are counted too.
func countImports(doc *formatter.Document) int {
	distinct := make(map[string]bool)
	for _, identifier := range doc.Imports {
		distinct[identifier] = true
	}
	for _, group := range doc.Groups {
		for _, identifier := range group.Imports {
			distinct[identifier] = true
		}
	}
	return len(distinct)
}

// Fingerprint hashes data with HighwayHash-64
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Render writes the report to w in the given format
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatTable:
		_, err := io.WriteString(w, r.table())
		return err
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	}
	return fmt.Errorf("%w: %q", errors.ErrInvalidReportFormat, format)
}

func (r *Report) table() string {
	var buf strings.Builder

	status := "not written"
	if r.Written {
		status = "written"
	}
	fmt.Fprintf(&buf, "Output: %s (%s, %s)\n", r.Output, humanize.Bytes(r.Size), status)
	fmt.Fprintf(&buf, "Fingerprint: %s\n", r.Fingerprint)
	fmt.Fprintf(&buf, "Files: %d merged, %d without namespace\n", len(r.Files), len(r.Skipped))

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Namespace", "Files", "Imports"})
	for _, namespace := range r.Namespaces {
		tbl.AppendRow(table.Row{namespace.Name, namespace.Files, namespace.Imports})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d namespaces", len(r.Namespaces)), "", r.Imports})
	buf.WriteString(tbl.Render())
	buf.WriteString("\n")
	return buf.String()
}
