package phmmscan

// TraceStep is one (state,k,i) triple along a trace, plus the posterior
// probability SparseDecoding assigned it, when known (spec.md §4.6).
type TraceStep struct {
	State     int8 // mainML..mainDG, or a special-state marker negative of SpecialState+1
	K         int  // model node, 0 for special states
	I         int  // sequence position, 0 for states that consume no residue
	Posterior float64
}

// Trace is an ordered alignment path through a profile, built by
// SparseViterbi (best single path) or read off cell-by-cell from
// SparseDecoding's posterior matrix (spec.md §4.6).
//
// Domain boundaries are recorded separately via Domains, since a single
// sequence can carry more than one domain when the multihit J state
// loops back into the model.
type Trace struct {
	Steps   []TraceStep
	Domains []Domain
}

// Domain describes one aligned region of the sequence against the model,
// indexed by its sequence span, model span, and anchor cell (spec.md §4.6
// "domain indexing by (sqfrom,sqto,hmmfrom,hmmto,anchor)").
type Domain struct {
	SqFrom, SqTo     int
	HMMFrom, HMMTo   int
	AnchorI, AnchorK int
	Bprob, Eprob     float64
}

// prepend inserts a step at the front of the trace; SparseViterbi's
// traceback walks backward from the winning cell, so each recovered step
// belongs before everything already recorded.
func (t *Trace) prepend(state int8, k, i int) {
	t.Steps = append(t.Steps, TraceStep{})
	copy(t.Steps[1:], t.Steps[:len(t.Steps)-1])
	t.Steps[0] = TraceStep{State: state, K: k, I: i}
}

// Score sums MatchScore/TransitionScore along the trace's steps against gp,
// the figure ReferenceViterbi/ApproxEnvScore cross-check a trace's claimed
// score against (spec.md §8 "ReferenceViterbi==TraceScore within 1e-6").
func (t *Trace) Score(gp *GenericProfile, dsq []int) float64 {
	xbl, xbg := gp.EntrySplit()
	var total float64
	for idx, step := range t.Steps {
		switch step.State {
		case mainML, mainMG:
			total += gp.MatchScore(step.K, dsq[step.I])
		}
		if idx == 0 {
			if step.State == mainML {
				total += xbl
			} else if step.State == mainMG {
				total += xbg
			}
			continue
		}
		prev := t.Steps[idx-1]
		total += transitionBetween(gp, prev, step)
	}
	return total
}

// transitionBetween returns the single TransitionScore that connects two
// consecutive trace steps, chosen by the (state,state) pair; local and
// glocal share the same underlying transition table (spec.md §4.6).
func transitionBetween(gp *GenericProfile, prev, cur TraceStep) float64 {
	switch {
	case (prev.State == mainML && cur.State == mainML) || (prev.State == mainMG && cur.State == mainMG):
		return gp.TransitionScore(prev.K, TMM)
	case (prev.State == mainIL && cur.State == mainML) || (prev.State == mainIG && cur.State == mainMG):
		return gp.TransitionScore(prev.K, TIM)
	case (prev.State == mainDL && cur.State == mainML) || (prev.State == mainDG && cur.State == mainMG):
		return gp.TransitionScore(prev.K, TDM)
	case (prev.State == mainML && cur.State == mainIL) || (prev.State == mainMG && cur.State == mainIG):
		return gp.TransitionScore(prev.K, TMI)
	case (prev.State == mainIL && cur.State == mainIL) || (prev.State == mainIG && cur.State == mainIG):
		return gp.TransitionScore(prev.K, TII)
	case (prev.State == mainML && cur.State == mainDL) || (prev.State == mainMG && cur.State == mainDG):
		return gp.TransitionScore(prev.K, TMD)
	case (prev.State == mainDL && cur.State == mainDL) || (prev.State == mainDG && cur.State == mainDG):
		return gp.TransitionScore(prev.K, TDD)
	default:
		return 0
	}
}

// RetractWings drops any leading/trailing run of glocal delete states from
// the trace's domain boundaries: a G-mode alignment that opens or closes
// on a run of D states is equivalent, at lower cost, to starting/ending
// one node later/earlier directly on a match (spec.md §4.6 "wing
// retraction for G->Mk entries").
func (t *Trace) RetractWings() {
	for i := range t.Domains {
		d := &t.Domains[i]
		for j := 0; j < len(t.Steps); j++ {
			s := t.Steps[j]
			if s.I < d.SqFrom || s.I > d.SqTo {
				continue
			}
			if s.State == mainDG && s.K == d.HMMFrom {
				d.HMMFrom++
				continue
			}
			break
		}
	}
}
