package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp is the kind of a diff line
type LineOp int

const (
	LineEqual LineOp = iota
	LineInsert
	LineDelete
)

// DiffLine is one line of a line based diff
type DiffLine struct {
	Op   LineOp
	Text string
}

// String renders the line with a "+", "-" or " " marker
func (l DiffLine) String() string {
	switch l.Op {
	case LineInsert:
		return "+" + l.Text
	case LineDelete:
		return "-" + l.Text
	}
	return " " + l.Text
}

// Diff compares previous and current output line by line
func Diff(previous, current string) []DiffLine {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(previous, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var result []DiffLine
	for _, diff := range diffs {
		op := LineEqual
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			op = LineInsert
		case diffmatchpatch.DiffDelete:
			op = LineDelete
		}
		for _, line := range splitLines(diff.Text) {
			result = append(result, DiffLine{Op: op, Text: line})
		}
	}
	return result
}

// DiffStats counts inserted and deleted lines
func DiffStats(lines []DiffLine) (added, removed int) {
	for _, line := range lines {
		switch line.Op {
		case LineInsert:
			added++
		case LineDelete:
			removed++
		}
	}
	return added, removed
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
