// Package cli contains the command line interface for envlet.
//
// # Usage
//
// Without a command, envlet starts an interactive shell reading let, unlet,
// and echo statements:
//
//	envlet
//
// The run command executes statements from flags and files, then prints
// the resulting environment or runs a command in it:
//
//	envlet run -e 'let $PATH = mung.prefix($PATH, "/opt/bin")' -o sh
//	envlet run -f setup.let -- make test
//
// The complete command prints the completion candidates for a line:
//
//	envlet complete --offset 'unlet $PA'
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (e.g., ~/.config/envlet). The init command writes
// config.yaml from the current flag values:
//
//	envlet --log-level=debug --max-vars=256 init
//
// A flag may also be set by the environment variable named after it with
// the ENVLET_ prefix:
//
//	ENVLET_LOG_LEVEL=debug envlet run -e 'echo $HOME'
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o envlet .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/envlet/pprof)
package cli
