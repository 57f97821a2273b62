package formatter

import (
	"fmt"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/std"
)

// Placement controls where deduplicated using directives are emitted
type Placement string

const (
	// PlacementInside emits one import block per namespace, indented inside it
	PlacementInside Placement = "imports-inside-namespace"
	// PlacementOutside emits a single import block before all namespaces
	PlacementOutside Placement = "imports-outside-namespace"
)

// BraceStyle controls where the opening brace of a namespace is placed
type BraceStyle string

const (
	// BraceSameLine emits "namespace N {"
	BraceSameLine BraceStyle = "same-line"
	// BraceNextLine emits "namespace N" followed by "{" on its own line
	BraceNextLine BraceStyle = "next-line"
)

// DefaultIndentSize is the number of spaces used for indentation
const DefaultIndentSize = 4

// Options configures merged output
type Options struct {
	IndentSize int        // spaces per indent level, must be positive
	Placement  Placement  // where imports are emitted
	StdPrefix  string     // identifiers starting with this prefix sort first
	BraceStyle BraceStyle // namespace brace placement
}

// DefaultOptions returns the default output options
func DefaultOptions() Options {
	return Options{
		IndentSize: DefaultIndentSize,
		Placement:  PlacementOutside,
		StdPrefix:  std.DefaultPrefix,
		BraceStyle: BraceSameLine,
	}
}

// Validate rejects options that cannot produce output
func (o Options) Validate() error {
	if o.IndentSize <= 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidIndentSize, o.IndentSize)
	}
	if _, err := ParsePlacement(string(o.Placement)); err != nil {
		return err
	}
	if _, err := ParseBraceStyle(string(o.BraceStyle)); err != nil {
		return err
	}
	return nil
}

// ParsePlacement converts a configuration value to a Placement
func ParsePlacement(value string) (Placement, error) {
	switch Placement(value) {
	case PlacementInside, PlacementOutside:
		return Placement(value), nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", errors.ErrInvalidPlacement, value, PlacementInside, PlacementOutside)
}

// ParseBraceStyle converts a configuration value to a BraceStyle
func ParseBraceStyle(value string) (BraceStyle, error) {
	switch BraceStyle(value) {
	case BraceSameLine, BraceNextLine:
		return BraceStyle(value), nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", errors.ErrInvalidBraceStyle, value, BraceSameLine, BraceNextLine)
}
