package eval

import (
	"os"
	"runtime"

	"github.com/ardnew/mung"
)

// builtins returns the names visible to every expression.
func builtins(getenv func(string) string, getopt func(string, string) (any, error)) map[string]any {
	return map[string]any{
		"env":    getenv,
		"option": getopt,

		"platform": map[string]any{
			"os":   runtime.GOOS,
			"arch": runtime.GOARCH,
		},
		"pathsep": string(os.PathListSeparator),

		// PATH-like list manipulation.
		"mung": map[string]any{
			"prefix": mungPrefix,
		},
	}
}

// mungPrefix returns the path list subject with each of prefix moved or
// added to its front.
func mungPrefix(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
