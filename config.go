package phmmscan

import "fmt"

// Config holds the Controller's per-stage cutoffs and options, all of which
// spec.md §6 places at the core boundary: no env vars, no on-disk format,
// no flag parsing, just a plain struct the caller populates (or accepts the
// documented defaults from) before calling Controller.Run.
type Config struct {
	// TauSparse is the posterior cutoff that decides which (i,k) cells
	// BackwardFilter retains into the Sparse Mask. Default 1e-4.
	TauSparse float64
	// MSVP, VFP, FFP are the three cascade gates: a sequence is skipped as
	// soon as its P-value at a stage exceeds the stage's cutoff. Defaults
	// 0.02, 1e-3, 1e-5.
	MSVP, VFP, FFP float64
	// MassTraceEpsilon is the cumulative escape-mass threshold MassTraceUp/
	// Down stop expanding at. Default 0.1.
	MassTraceEpsilon float64
	// SIMDWidth is a lane width in bytes; Validate accepts 16, 32, 64, or
	// zero. The Controller runs at the width of the OptimizedProfile it is
	// given and does not read this field.
	SIMDWidth int
	// RequireVitIINegative names invariant I3 (every word-layer II
	// transition score at most -1). Default true. Build enforces I3 on every
	// word layer whatever this field holds; no code reads it.
	RequireVitIINegative bool
	// ExpectedDomains is the nj parameter ReconfigureLength feeds the
	// multihit length model. Default 3.0.
	ExpectedDomains float64
	// OnSequenceError is called once per sequence that aborts with an
	// error (as opposed to a clean gate miss, which is not an error) --
	// the caller's one diagnostic hook, matching spec.md §7's "a single
	// line per aborted sequence to a diagnostic channel" without pulling
	// in a logging dependency.
	OnSequenceError func(name string, err error)
}

// DefaultConfig returns the cutoffs spec.md §6 documents as defaults.
func DefaultConfig() Config {
	return Config{
		TauSparse:            1e-4,
		MSVP:                 0.02,
		VFP:                  1e-3,
		FFP:                  1e-5,
		MassTraceEpsilon:     0.1,
		SIMDWidth:            0,
		RequireVitIINegative: true,
		ExpectedDomains:      3.0,
	}
}

// Validate checks Config's numeric fields are in sane ranges, returning a
// wrapped ErrInvalidProfile on failure (Config isn't itself a profile, but
// it gates profile-consuming operations, so the same sentinel is reused
// rather than minting a parallel ErrInvalidConfig that callers would also
// need to match on).
func (c Config) Validate() error {
	if c.TauSparse <= 0 || c.TauSparse >= 1 {
		return fmt.Errorf("%w: tau_sparse %g must be in (0,1)", ErrInvalidProfile, c.TauSparse)
	}
	if c.MSVP <= 0 || c.MSVP >= 1 {
		return fmt.Errorf("%w: msv_P %g must be in (0,1)", ErrInvalidProfile, c.MSVP)
	}
	if c.VFP <= 0 || c.VFP >= 1 {
		return fmt.Errorf("%w: vf_P %g must be in (0,1)", ErrInvalidProfile, c.VFP)
	}
	if c.FFP <= 0 || c.FFP >= 1 {
		return fmt.Errorf("%w: ff_P %g must be in (0,1)", ErrInvalidProfile, c.FFP)
	}
	if c.MassTraceEpsilon <= 0 {
		return fmt.Errorf("%w: mass_trace_epsilon %g must be > 0", ErrInvalidProfile, c.MassTraceEpsilon)
	}
	if c.SIMDWidth != 0 && c.SIMDWidth != 16 && c.SIMDWidth != 32 && c.SIMDWidth != 64 {
		return fmt.Errorf("%w: simd_width %d must be one of {16,32,64} or 0 for auto", ErrInvalidProfile, c.SIMDWidth)
	}
	if c.ExpectedDomains <= 0 {
		return fmt.Errorf("%w: expected domains %g must be > 0", ErrInvalidProfile, c.ExpectedDomains)
	}
	return nil
}
