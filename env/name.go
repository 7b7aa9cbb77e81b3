package env

import "strings"

// EqualName reports whether a and b name the same variable under the
// platform case rule.
func EqualName(a, b string) bool {
	if FoldCase {
		return strings.EqualFold(a, b)
	}

	return a == b
}

// HasNamePrefix reports whether name begins with prefix under the platform
// case rule.
func HasNamePrefix(name, prefix string) bool {
	if len(prefix) > len(name) {
		return false
	}

	return EqualName(name[:len(prefix)], prefix)
}

// NameKey returns the canonical form of name used as a map key, such that
// NameKey(a) == NameKey(b) exactly when EqualName(a, b).
func NameKey(name string) string {
	if FoldCase {
		return strings.ToUpper(name)
	}

	return name
}
