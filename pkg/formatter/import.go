package formatter

// Import represents a single using directive
type Import struct {
	Identifier string // dotted namespace name, e.g. System.Collections.Generic
	Group      ImportGroup
}

// ImportGroup represents the sections of an emitted import block
type ImportGroup int

const (
	StdGroup  ImportGroup = iota // identifiers starting with the standard-library prefix
	UserGroup                    // everything else
)
