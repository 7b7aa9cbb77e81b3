// Package profile provides optional runtime profiling for envlet.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution tracing
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// From the command line:
//
//	envlet --pprof-mode=cpu run '$PATH .= ":/opt/bin"'
//
// Profiles are written to the pprof subdirectory of the cache directory
// unless --pprof-dir is given, and can be inspected with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/envlet/pprof/cpu.pprof
package profile
