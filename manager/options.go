package manager

// Options configures a CrdtManager's ambient behavior. It replaces the
// kind of global mutable configuration flag a reflective implementation
// would reach for (see the teacher lineage's package-level nstlog
// logger level switch) with a value constructed once per manager.
type Options struct {
	// LogMapperErrors causes MapperError occurrences to be logged at
	// Warn through the manager's logger. It is independent of Strict,
	// which alone decides whether the error is also recorded. Off by
	// default to keep conversion failures quiet unless a caller opts in.
	LogMapperErrors bool

	// Strict additionally records a MapperError into the manager's
	// MapperIssues list. It never turns a MapperError into a fatal
	// error: Value/ValueAt always soft-fail to the zero value.
	Strict bool

	// DiagnosticsCapacity bounds how many FoldIssue entries the
	// manager's diagnostics ring retains, and separately how many
	// MapperIssues entries it keeps. 0 or less means unbounded;
	// DefaultOptions sets 64.
	DiagnosticsCapacity int
}

// DefaultOptions returns the manager's default configuration: quiet
// about mapper errors, not strict, a modestly sized diagnostics ring.
func DefaultOptions() *Options {
	return &Options{
		LogMapperErrors:     false,
		Strict:              false,
		DiagnosticsCapacity: 64,
	}
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}
