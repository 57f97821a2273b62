// Package merger combines parsed source records into a single document and coordinates a
// full merge run: collecting files, parsing them, merging and writing the output.
package merger

import (
	"github.com/siyuan-infoblox/codemerge/pkg/csharp"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
)

// Merge accumulates already sorted records into a document. Records are not re-sorted.
//
// Every namespace block contributes its content and the union of its own imports and the
// file's top-level imports to the group of the same name. Groups keep their first-seen order.
// Blocks with an empty name are dropped. Under PlacementOutside the imports are also collected
// into the document's global import set.
func Merge(records []*csharp.SourceRecord, options formatter.Options) (*formatter.Document, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	acc := newAccumulator(options.Placement == formatter.PlacementOutside)
	for _, record := range records {
		for _, block := range record.Namespaces {
			if block.Name == "" {
				continue
			}
			group := acc.group(block.Name)
			group.addImports(record.Imports)
			group.addImports(block.Imports)
			group.Contributions = append(group.Contributions, formatter.Contribution{
				FileName: record.Name,
				Content:  block.Content,
			})
			if acc.global != nil {
				acc.global.add(record.Imports)
				acc.global.add(block.Imports)
			}
		}
	}

	return acc.document(), nil
}

// Text merges the records and renders the document
func Text(records []*csharp.SourceRecord, options formatter.Options) (string, error) {
	doc, err := Merge(records, options)
	if err != nil {
		return "", err
	}
	return formatter.New(options).Format(doc), nil
}

// importSet is a deduplicated list of identifiers in first-seen order
type importSet struct {
	seen  map[string]bool
	items []string
}

func newImportSet() *importSet {
	return &importSet{seen: make(map[string]bool)}
}

func (s *importSet) add(identifiers []string) {
	for _, identifier := range identifiers {
		if s.seen[identifier] {
			continue
		}
		s.seen[identifier] = true
		s.items = append(s.items, identifier)
	}
}

type groupState struct {
	*formatter.Group
	imports *importSet
}

func (g *groupState) addImports(identifiers []string) {
	g.imports.add(identifiers)
	g.Imports = g.imports.items
}

// accumulator holds the state of a single merge invocation
type accumulator struct {
	order  []*groupState
	byName map[string]*groupState
	global *importSet
}

func newAccumulator(withGlobal bool) *accumulator {
	acc := &accumulator{byName: make(map[string]*groupState)}
	if withGlobal {
		acc.global = newImportSet()
	}
	return acc
}

func (a *accumulator) group(name string) *groupState {
	if group, ok := a.byName[name]; ok {
		return group
	}
	group := &groupState{Group: &formatter.Group{Name: name}, imports: newImportSet()}
	a.byName[name] = group
	a.order = append(a.order, group)
	return group
}

func (a *accumulator) document() *formatter.Document {
	doc := &formatter.Document{}
	if a.global != nil {
		doc.Imports = a.global.items
	}
	for _, group := range a.order {
		doc.Groups = append(doc.Groups, group.Group)
	}
	return doc
}
