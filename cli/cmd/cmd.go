package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named name, or the empty string.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// script is a named source of statement lines.
type script struct {
	name string
	r    io.Reader
}

// openScripts opens the statement files at paths, in order.
//
// A file named more than once, through any path or symlink, is opened only
// once. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files. The returned function closes
// every file opened.
func openScripts(paths []string) ([]script, func(), error) {
	var (
		scripts []script
		files   []*os.File
		seen    []os.FileInfo
		stdin   bool
	)

	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			closeAll()

			return nil, nil, ErrReadScript.Wrap(err)
		}

		if sameAny(info, seen) {
			continue
		}

		seen = append(seen, info)

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			closeAll()

			return nil, nil, ErrReadScript.Wrap(err)
		}

		files = append(files, f)
		scripts = append(scripts, script{name: path, r: f})
	}

	if stdin {
		scripts = append(scripts, script{name: "<stdin>", r: os.Stdin})
	}

	return scripts, closeAll, nil
}

func sameAny(info os.FileInfo, seen []os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(info, s) {
			return true
		}
	}

	return false
}
