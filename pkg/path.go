package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
)

// Prefix returns the identifier naming the per-user envlet directories. It
// is derived from the executable so that a renamed copy keeps separate
// configuration: the base name without extension or leading dots, or
// [Name] for a debugger build ("__debug_bin...") or an empty result.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return prefixOf(exe)
})

func prefixOf(exe string) string {
	base := strings.TrimLeft(filepath.Base(exe), ".")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || strings.HasPrefix(base, "__debug_bin") {
		return Name
	}

	return base
}

// EnvPrefix returns the prefix of the environment variables that provide
// flag defaults, e.g. "ENVLET" for flag --max-vars read from
// ENVLET_MAX_VARS.
//
//nolint:gochecknoglobals
var EnvPrefix = sync.OnceValue(func() string { return envPrefixOf(Prefix()) })

func envPrefixOf(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || ('0' <= r && r <= '9') || ('A' <= r && r <= 'Z') {
			return r
		}

		if 'a' <= r && r <= 'z' {
			return unicode.ToUpper(r)
		}

		return '_'
	}, prefix)
}

// ConfigDir returns the directory holding envlet configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding the REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir returns the [Prefix] directory under the directory reported by
// base, under hidden in the home directory if base fails, or under the
// working directory if that fails too.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
