//go:build !windows

package env

// FoldCase reports whether variable names are case-insensitive.
const FoldCase = false
