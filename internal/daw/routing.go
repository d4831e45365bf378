package daw

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveOption resolves a caller-supplied routing target against a
// host-provided ordered option list: target may be an integer index, a
// numeric string index, or a substring pattern matched case-insensitively
// against each option's DisplayName. ResolveOption never fails to resolve:
// a nil target, an out-of-range index, or a pattern with no match all
// return (nil, nil) rather than an error. Only an unsupported target type
// is an error.
func ResolveOption(options []RoutingOption, target any) (*RoutingOption, error) {
	if target == nil {
		return nil, nil
	}

	switch t := target.(type) {
	case int:
		return resolveOptionIndex(options, t)
	case float64:
		return resolveOptionIndex(options, int(t))
	case string:
		if idx, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return resolveOptionIndex(options, idx)
		}
		return resolveOptionSubstring(options, t)
	default:
		return nil, fmt.Errorf("%w: unsupported routing target type %T", ErrBadValue, target)
	}
}

func resolveOptionIndex(options []RoutingOption, idx int) (*RoutingOption, error) {
	if idx < 0 || idx >= len(options) {
		return nil, nil
	}
	opt := options[idx]
	return &opt, nil
}

func resolveOptionSubstring(options []RoutingOption, pattern string) (*RoutingOption, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.DisplayName), pattern) {
			o := opt
			return &o, nil
		}
	}
	return nil, nil
}
