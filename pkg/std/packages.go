package std

import "strings"

// DefaultPrefix is the core-library namespace prefix of C#
const DefaultPrefix = "System"

// StandardPrefixes maps a language tag to the namespace prefix of its core library
var StandardPrefixes = map[string]string{
	"cs": DefaultPrefix,
}

// PrefixFor returns the core-library prefix for a language tag, falling back to DefaultPrefix
func PrefixFor(language string) string {
	if prefix, ok := StandardPrefixes[language]; ok {
		return prefix
	}
	return DefaultPrefix
}

// IsStandardPackage reports whether an import identifier belongs to the core library.
// An empty prefix never matches.
func IsStandardPackage(identifier, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(identifier, prefix)
}

// TrimPrefix removes every occurrence of the prefix from the identifier, which is the key
// standard imports are ordered by among themselves
func TrimPrefix(identifier, prefix string) string {
	if prefix == "" {
		return identifier
	}
	return strings.ReplaceAll(identifier, prefix, "")
}
