// Package env mediates access to a process environment table.
//
// A [Bridge] is the only way the rest of the module reads or writes
// environment variables. [Process] operates on the real environment of the
// running process, and [Map] on an isolated in-memory table (used for dry
// runs and tests).
//
// Names are compared with the platform rule reported by [FoldCase]:
// case-sensitively on POSIX systems and case-insensitively on Windows.
package env

import (
	"os"
	"strings"
)

// Bridge reads and writes an environment table.
type Bridge interface {
	// Get returns the value of name and whether it is defined.
	Get(name string) (string, bool)
	// Set defines name with value, replacing any existing definition.
	Set(name, value string) error
	// Unset removes the definition of name, if any.
	Unset(name string) error
	// Environ returns a copy of the table as "NAME=VALUE" strings.
	Environ() []string
}

// Process is the [Bridge] to the environment of the running process.
type Process struct{}

// Get implements [Bridge].
func (Process) Get(name string) (string, bool) { return os.LookupEnv(name) }

// Set implements [Bridge].
func (Process) Set(name, value string) error { return os.Setenv(name, value) }

// Unset implements [Bridge].
func (Process) Unset(name string) error { return os.Unsetenv(name) }

// Environ implements [Bridge].
func (Process) Environ() []string { return os.Environ() }

// Split separates an environment entry into its name and value.
// It reports false for entries without a name, including the
// drive-letter pseudo variables ("=C:=C:\") found on Windows.
func Split(entry string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(entry, "=")
	if !ok || name == "" {
		return "", "", false
	}

	return name, value, true
}
