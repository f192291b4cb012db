package phmmscan

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// nnCcJjCorrection is the fixed nat correction the pipeline applies to
// every word-layer (ViterbiFilter) and byte-layer (MSV) raw score to
// compensate for NN=CC=JJ being hard-wired to 0 in the quantized layers
// (see ReconfigureLength's I4 comment in optimize.go). spec.md §9 Design
// Note (a): preserved exactly rather than re-derived, since changing it
// would require recalibrating msv_P/vf_P/ff_P against a fitted dataset,
// which is out of scope.
const nnCcJjCorrection = -3.0

// Sequence is one digitized input to the Controller: a 1-indexed residue
// array with dsq[0] and dsq[L+1] set to the alphabet sentinel (spec.md §6).
type Sequence struct {
	Name string
	Dsq  []int
	L    int
}

// Record is one reported domain, the pipeline's output tuple (spec.md §4.5
// step 7, §6 "Pipeline output record").
type Record struct {
	Name, Model                   string
	D                              int
	SqFrom, SqTo                   int
	HMMFrom, HMMTo                 int
	IAE, IBE, KAE, KBE             int
	NDomExp                        float64
	Bprob, Eprob                   float64
	EnvscApprox, EnvscExact, Delta float64
}

// stageResult is the per-gate outcome the controller checks between
// cascade stages; a miss is not an error (spec.md §7 "GateMiss... never
// surfaced to the caller as an error value").
type stageResult int

const (
	stagePass stageResult = iota
	stageSkip
)

// sequenceState names the per-sequence state machine spec.md §4.5 defines:
// Init -> MSV_OK -> VF_OK -> FF_OK -> BF_OK -> Sparse_OK -> Reported, with
// any gate miss transitioning to Skipped (terminal).
type sequenceState int

const (
	stateInit sequenceState = iota
	stateMSVOk
	stateVFOk
	stateFFOk
	stateBFOk
	stateSparseOk
	stateReported
	stateSkipped
)

// Controller runs the acceleration cascade for one worker: single-threaded,
// owning all of its scratch (FX, SM, and the forward/backward SparseMatrix
// pair), shared nothing with any other Controller (spec.md §5).
type Controller struct {
	gp    *GenericProfile
	op    *OptimizedProfile
	bg    *Background
	cfg   Config

	fx       *FilterMatrix
	sm       *SparseMask
	fwdSx    *SparseMatrix
	bwdSx    *SparseMatrix

	state sequenceState
}

// NewController builds a Controller bound to gp/op/bg. Every sequence it
// runs rewrites their length-dependent state in place (the two
// ReconfigureLength calls and Background.NullOneScore), so gp/op/bg are not
// read-only while the Controller runs. cfg is validated
// immediately so a misconfigured cutoff fails fast rather than silently
// mis-gating every sequence.
func NewController(gp *GenericProfile, op *OptimizedProfile, bg *Background, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		gp:    gp,
		op:    op,
		bg:    bg,
		cfg:   cfg,
		fx:    NewFilterMatrix(),
		sm:    NewSparseMask(),
		fwdSx: NewSparseMatrix(),
		bwdSx: NewSparseMatrix(),
	}, nil
}

// Run consumes seqs in order, applying the cascade per spec.md §4.5 to
// each, invoking emit once per reported domain (ordering within a single
// Controller matches input order, spec.md §5). ctx is checked only at the
// iteration boundary between sequences -- never inside a DP kernel, since
// the kernels have no suspension points (spec.md §5, SPEC_FULL.md §4.8).
func (c *Controller) Run(ctx context.Context, seqs []Sequence, emit func(Record)) error {
	for _, seq := range seqs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.runOne(seq, emit); err != nil {
			if c.cfg.OnSequenceError != nil {
				c.cfg.OnSequenceError(seq.Name, err)
			}
		}
	}
	return nil
}

// runOne runs the full cascade for a single sequence, returning early (with
// a nil error) at the first gate miss. An error return is reserved for
// programming/allocation failures, never for a clean P-value skip.
func (c *Controller) runOne(seq Sequence, emit func(Record)) error {
	c.state = stateInit
	L := seq.L
	if L <= 0 || len(seq.Dsq) < L+2 {
		return fmt.Errorf("%w: sequence %q has invalid length %d", ErrInvalidProfile, seq.Name, L)
	}

	// Step 1: set length on OP, GP, BG; compute null-one score.
	c.gp.ReconfigureLength(L, c.cfg.ExpectedDomains)
	c.op.ReconfigureLength(L)
	nullScore := c.bg.NullOneScore(L)

	c.fx.GrowTo(c.op.M(), L)

	// Step 2: MSV.
	msvRaw := MSVFilter(seq.Dsq, c.op, c.fx)
	if !math.IsInf(msvRaw, 1) {
		bits := (msvRaw+nnCcJjCorrection - nullScore) / math.Ln2
		if pvalueFromBits(bits, c.gp.EvalueParams) > c.cfg.MSVP {
			c.state = stateSkipped
			return nil
		}
	}
	c.state = stateMSVOk

	// Step 3: ViterbiFilter.
	vfRaw := ViterbiFilter(seq.Dsq, c.op, c.fx)
	if !math.IsInf(vfRaw, 1) {
		bits := (vfRaw+nnCcJjCorrection - nullScore) / math.Ln2
		if pvalueFromBits(bits, c.gp.EvalueParams) > c.cfg.VFP {
			c.state = stateSkipped
			return nil
		}
	}
	c.state = stateVFOk

	// Step 4: ForwardFilter.
	ffRaw := ForwardFilter(seq.Dsq, c.op, c.fx)
	bits := (ffRaw - nullScore) / math.Ln2
	if pvalueFromBits(bits, c.gp.EvalueParams) > c.cfg.FFP {
		c.state = stateSkipped
		return nil
	}
	c.state = stateFFOk

	// Step 5: BackwardFilter -> Sparse Mask.
	c.sm.Reset(c.op.M(), L)
	BackwardFilter(seq.Dsq, c.op, c.fx, c.cfg.TauSparse, c.sm)
	c.state = stateBFOk

	// Step 6: SparseViterbi(+trace), SparseForward, SparseBackward,
	// SparseDecoding; attach posteriors, compute domain index.
	_, vtrace := SparseViterbi(seq.Dsq, c.gp, c.sm, c.fwdSx)
	total := SparseForward(seq.Dsq, c.gp, c.sm, c.fwdSx)
	SparseBackward(seq.Dsq, c.gp, c.sm, c.bwdSx)
	decoded := SparseDecoding(c.sm, c.fwdSx, c.bwdSx, total)
	domains := indexDomains(vtrace, decoded)
	if len(domains) == 0 {
		c.state = stateSkipped
		return nil
	}
	c.state = stateSparseOk

	// Step 7: per domain, MassTrace + envelope scores, emit.
	for d, dom := range domains {
		iae, kae := MassTraceUp(c.sm, c.fwdSx, c.bwdSx, total, dom.AnchorI, dom.AnchorK, c.cfg.MassTraceEpsilon)
		ibe, kbe := MassTraceDown(c.sm, c.fwdSx, c.bwdSx, total, dom.AnchorI, dom.AnchorK, c.cfg.MassTraceEpsilon)

		approx := ApproxEnvScore(c.sm, c.fwdSx, c.bwdSx, total, dom)
		exact := SparseEnvScore(seq.Dsq, c.gp, c.sm, dom)

		emit(Record{
			Name:        seq.Name,
			Model:       c.gp.Name,
			D:           d + 1,
			SqFrom:      dom.SqFrom,
			SqTo:        dom.SqTo,
			HMMFrom:     dom.HMMFrom,
			HMMTo:       dom.HMMTo,
			IAE:         iae,
			IBE:         ibe,
			KAE:         kae,
			KBE:         kbe,
			NDomExp:     expectedDomainCount(c.fwdSx, c.sm, total),
			Bprob:       dom.Bprob,
			Eprob:       dom.Eprob,
			EnvscApprox: approx,
			EnvscExact:  exact,
			Delta:       approx - exact,
		})
	}
	c.state = stateReported
	return nil
}

// indexDomains builds the DomainIndex step named but not detailed by
// spec.md §4.5 step 6 ("attach posteriors to the trace, compute domain
// index"): each posterior-decoded run of consecutive-i steps becomes one
// Domain, anchored at its highest-posterior cell; Viterbi's best trace
// becomes the single Domain only when the decoded trace has no steps
// (SPEC_FULL.md §4.8).
func indexDomains(vtrace, decoded *Trace) []Domain {
	if len(decoded.Steps) == 0 {
		if len(vtrace.Steps) == 0 {
			return nil
		}
		return []Domain{domainFromSteps(vtrace.Steps)}
	}

	var domains []Domain
	start := 0
	for i := 1; i <= len(decoded.Steps); i++ {
		if i == len(decoded.Steps) || decoded.Steps[i].I != decoded.Steps[i-1].I+1 {
			domains = append(domains, domainFromSteps(decoded.Steps[start:i]))
			start = i
		}
	}
	return domains
}

// domainFromSteps derives a Domain's span and anchor from an ordered run of
// trace steps, anchoring at the step with the highest recorded posterior
// (or the run's midpoint when no posterior was attached, as with a
// SparseViterbi trace).
func domainFromSteps(steps []TraceStep) Domain {
	d := Domain{
		SqFrom: steps[0].I, SqTo: steps[len(steps)-1].I,
		HMMFrom: steps[0].K, HMMTo: steps[len(steps)-1].K,
		AnchorI: steps[len(steps)/2].I, AnchorK: steps[len(steps)/2].K,
	}
	best := 0.0
	for _, s := range steps {
		if s.Posterior > best {
			best = s.Posterior
			d.AnchorI, d.AnchorK = s.I, s.K
		}
	}
	return d
}

// expectedDomainCount is ndom_exp, the expected number of domains a
// multihit-architecture alignment implies, approximated as exp(E - total)
// summed over every row's E-state posterior; here approximated from the
// forward matrix's accumulated E-mass relative to the total score.
func expectedDomainCount(fwdSx *SparseMatrix, sm *SparseMask, total float64) float64 {
	sum := 0.0
	for i := 1; i <= sm.L(); i++ {
		row := sm.Row(i)
		for idx := range row {
			cell := fwdSx.Main(i, idx)
			sum += math.Exp(cell[mainML] - total)
		}
	}
	return sum
}

// pvalueFromBits converts a null-adjusted bit score to a P-value under the
// Gumbel extreme-value tail HMMER-style scoring uses, consuming the
// profile's fitted (mu,lambda) as opaque parameters (spec.md §3 "evalue
// parameters... passed through unused by the core DP" -- unused by the DP,
// but this is exactly the one place they're read, at the pipeline gates).
func pvalueFromBits(bits float64, params [3]float64) float64 {
	mu, lambda := params[0], params[1]
	if lambda == 0 {
		lambda = 0.693
	}
	x := -lambda * (bits - mu)
	if x > 700 {
		return 1.0
	}
	return -math.Expm1(-math.Exp(x))
}

// ErrPipelineAborted is returned by callers that want to distinguish a
// controller-level abort from a per-sequence OnSequenceError callback; the
// core itself never returns it (kept for callers composing Run over a
// cancellable context).
var ErrPipelineAborted = errors.New("phmmscan: pipeline aborted")
