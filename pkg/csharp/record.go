package csharp

// SourceRecord is the structure extracted from one C# source file
type SourceRecord struct {
	Name          string           // display name, the base file name
	Path          string           // full path, used only to break ordering ties
	HasEntryPoint bool             // the file declares a Main method
	Imports       []string         // top-level using directives, deduplicated in first-seen order
	Namespaces    []NamespaceBlock // namespace blocks in source order
}

// NamespaceBlock is the body of one namespace declaration
type NamespaceBlock struct {
	Name          string   // dot-delimited namespace name
	Content       string   // body without the declaration and without its using directives
	Imports       []string // using directives declared inside the body
	HasEntryPoint bool     // the body declares a Main method
}
