package daw

import "strings"

// MatchMode selects how MatchName compares a candidate name against a
// pattern.
type MatchMode string

const (
	MatchContains   MatchMode = "contains"
	MatchStartsWith MatchMode = "startswith"
	MatchEquals     MatchMode = "equals"
)

// MatchName reports whether name matches pattern under mode, case-insensitive
// throughout. An unrecognized mode falls back to MatchContains rather than
// erroring, since a forward-compatible client may send a mode this build
// doesn't yet recognize.
func MatchName(name, pattern string, mode MatchMode) bool {
	name = strings.ToLower(name)
	pattern = strings.ToLower(pattern)

	switch mode {
	case MatchEquals:
		return name == pattern
	case MatchStartsWith:
		return strings.HasPrefix(name, pattern)
	case MatchContains, "":
		return strings.Contains(name, pattern)
	default:
		return strings.Contains(name, pattern)
	}
}
