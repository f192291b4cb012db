package phmmscan

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the core. Callers should match with errors.Is;
// wrapped instances carry additional context via fmt.Errorf("%w: ...", ...).
var (
	// ErrInvalidProfile is returned when a GenericProfile fails validation
	// (bad length, a node with no finite match emission) or when OptimizedProfile.Build
	// cannot allocate the striped layers for the requested length/width.
	ErrInvalidProfile = errors.New("phmmscan: invalid profile")

	// ErrTraceInvalid marks an internal trace-consistency failure. It is
	// raised only by validation helpers used in tests; a production
	// SparseViterbi trace is never expected to fail this check.
	ErrTraceInvalid = errors.New("phmmscan: trace failed consistency check")

	// ErrNotLoaded is returned by the debug-dump loaders (LoadSparseMaskDump,
	// LoadRecordBounds) when a dump is truncated.
	ErrNotLoaded = errors.New("phmmscan: structure not initialized")
)

// capacityPanic reports a programming error: a caller-owned scratch buffer
// was sized below what the engine requires. Per spec this is fatal, never a
// returned error (see spec.md §7 ErrKind CapacityExceeded).
func capacityPanic(format string, args ...any) {
	panic("phmmscan: capacity exceeded: " + fmt.Sprintf(format, args...))
}
