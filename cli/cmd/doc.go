// Package cmd implements the envlet subcommands.
//
// Every command that executes statements opens a session: a registry of
// environment variables bootstrapped from the process environment, the
// builtin option store extended with any definitions file, and an engine
// evaluating expressions. The session restores the process environment
// when it is closed.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
