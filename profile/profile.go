package profile

// Tag is the build tag that enables profiling, and the name of the
// subdirectory of the cache directory profiles are written to by default.
const Tag = "pprof"

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. Profiling is disabled if Mode is empty.
	Mode string
	// Path is the directory profiles are written to.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Stopper stops a profiling session.
type Stopper interface{ Stop() }

// Start starts profiling and returns the session to stop. Without the pprof
// build tag, or with an empty or unknown mode, Start does nothing and the
// returned Stopper is a no-op.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
