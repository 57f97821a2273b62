package csharp

import (
	"sort"
	"strings"
)

// Compare orders records so that files declaring an entry point come first, then by display
// name, then by full path
func Compare(a, b *SourceRecord) int {
	if c := compareEntryPoint(a.HasEntryPoint, b.HasEntryPoint); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// CompareBlocks applies the record ordering to namespace blocks: entry point first, then name
func CompareBlocks(a, b NamespaceBlock) int {
	if c := compareEntryPoint(a.HasEntryPoint, b.HasEntryPoint); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// SortRecords sorts records in place using Compare
func SortRecords(records []*SourceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return Compare(records[i], records[j]) < 0
	})
}

func compareEntryPoint(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	}
	return 0
}
